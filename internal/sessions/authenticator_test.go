package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msg-api/internal/security"
)

// memStore is an in-memory Store with a controllable clock so TTL behavior
// can be asserted without redis.
type memStore struct {
	now     time.Time
	entries map[Key]memEntry
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

func newMemStore() *memStore {
	return &memStore{now: time.Unix(1700000000, 0), entries: map[Key]memEntry{}}
}

func (s *memStore) advance(d time.Duration) { s.now = s.now.Add(d) }

func (s *memStore) remainingTTL(key Key) time.Duration {
	entry, ok := s.entries[key]
	if !ok {
		return 0
	}
	return entry.expiresAt.Sub(s.now)
}

func (s *memStore) Set(_ context.Context, key Key, value string, ttl time.Duration) error {
	s.entries[key] = memEntry{value: value, expiresAt: s.now.Add(ttl)}
	return nil
}

func (s *memStore) Get(_ context.Context, key Key) (string, error) {
	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(s.now) {
		return "", ErrNoSession
	}
	return entry.value, nil
}

func (s *memStore) RefreshTTL(_ context.Context, key Key, ttl time.Duration) error {
	entry, ok := s.entries[key]
	if !ok {
		return ErrNoSession
	}
	entry.expiresAt = s.now.Add(ttl)
	s.entries[key] = entry
	return nil
}

var testHasher = security.NewHasher(security.Params{Time: 1, Memory: 16 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})

func TestIssueVerifyRoundTrip(t *testing.T) {
	store := newMemStore()
	auth := NewAuthenticator(store, testHasher, 72*time.Hour)
	ctx := context.Background()

	token, err := auth.Issue(ctx, 1, "phone")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// the store never holds the plaintext token
	stored, err := store.Get(ctx, Key{UserID: 1, DeviceID: "phone"})
	require.NoError(t, err)
	assert.NotEqual(t, token, stored)

	ok, err := auth.Verify(ctx, 1, "phone", token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongTokenDeviceUser(t *testing.T) {
	store := newMemStore()
	auth := NewAuthenticator(store, testHasher, 72*time.Hour)
	ctx := context.Background()

	token, err := auth.Issue(ctx, 1, "phone")
	require.NoError(t, err)

	ok, err := auth.Verify(ctx, 1, "phone", "not-the-token")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.Verify(ctx, 1, "laptop", token)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.Verify(ctx, 2, "phone", token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySlidesExpiration(t *testing.T) {
	store := newMemStore()
	auth := NewAuthenticator(store, testHasher, 72*time.Hour)
	ctx := context.Background()
	key := Key{UserID: 1, DeviceID: "phone"}

	token, err := auth.Issue(ctx, 1, "phone")
	require.NoError(t, err)

	store.advance(48 * time.Hour)
	require.Equal(t, 24*time.Hour, store.remainingTTL(key))

	ok, err := auth.Verify(ctx, 1, "phone", token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 72*time.Hour, store.remainingTTL(key))

	// a failed verification must not extend the session
	store.advance(time.Hour)
	ok, err = auth.Verify(ctx, 1, "phone", "wrong")
	require.NoError(t, err)
	require.False(t, ok)
	assert.Equal(t, 71*time.Hour, store.remainingTTL(key))
}

func TestVerifyExpiredSession(t *testing.T) {
	store := newMemStore()
	auth := NewAuthenticator(store, testHasher, 72*time.Hour)
	ctx := context.Background()

	token, err := auth.Issue(ctx, 1, "phone")
	require.NoError(t, err)

	store.advance(72*time.Hour + time.Minute)

	ok, err := auth.Verify(ctx, 1, "phone", token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIssueOverwritesPriorSession(t *testing.T) {
	store := newMemStore()
	auth := NewAuthenticator(store, testHasher, 72*time.Hour)
	ctx := context.Background()

	first, err := auth.Issue(ctx, 1, "phone")
	require.NoError(t, err)
	second, err := auth.Issue(ctx, 1, "phone")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	ok, err := auth.Verify(ctx, 1, "phone", first)
	require.NoError(t, err)
	assert.False(t, ok, "first token must be invalidated by the overwrite")

	ok, err = auth.Verify(ctx, 1, "phone", second)
	require.NoError(t, err)
	assert.True(t, ok)
}
