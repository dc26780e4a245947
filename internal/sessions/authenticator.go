package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Hasher is the slice of the credential hasher the authenticator needs.
// Session tokens get the same at-rest treatment as passwords: the store only
// ever sees a hash, never the plaintext token.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) bool
}

// Authenticator issues and verifies bearer tokens bound to one (user, device)
// pair with a sliding expiration.
type Authenticator struct {
	store  Store
	hasher Hasher
	ttl    time.Duration
}

// NewAuthenticator constructs an Authenticator. ttl is the sliding session
// window; every successful verification extends the session by the full ttl.
func NewAuthenticator(store Store, hasher Hasher, ttl time.Duration) *Authenticator {
	return &Authenticator{store: store, hasher: hasher, ttl: ttl}
}

// Issue generates a fresh random token for the pair, stores its hash with the
// configured TTL and returns the plaintext token. The plaintext is handed out
// exactly once; it is not recoverable afterwards. Issuing a second session
// for the same pair overwrites the first, invalidating its token.
func (a *Authenticator) Issue(ctx context.Context, userID int64, deviceID string) (string, error) {
	token := uuid.NewString()

	hash, err := a.hasher.Hash(token)
	if err != nil {
		return "", fmt.Errorf("hash session token: %w", err)
	}

	key := Key{UserID: userID, DeviceID: deviceID}
	if err := a.store.Set(ctx, key, hash, a.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Verify checks the presented token against the stored hash for the pair.
// A missing session and a wrong token both yield false; callers must treat
// them identically. On success the TTL is reset to the full window.
func (a *Authenticator) Verify(ctx context.Context, userID int64, deviceID, token string) (bool, error) {
	key := Key{UserID: userID, DeviceID: deviceID}

	hash, err := a.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return false, nil
		}
		return false, err
	}

	if !a.hasher.Verify(token, hash) {
		return false, nil
	}

	if err := a.store.RefreshTTL(ctx, key, a.ttl); err != nil {
		return false, err
	}
	return true, nil
}
