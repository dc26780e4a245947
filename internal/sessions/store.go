package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned by Get when no entry exists for the key, either
// because none was ever issued or because it expired.
var ErrNoSession = errors.New("no session")

// Key identifies one device session. A user may hold sessions on several
// devices at once, but only one per device. The struct keeps user and device
// apart instead of concatenating them: device ids are caller-supplied opaque
// strings, so a raw concatenation could collide.
type Key struct {
	UserID   int64
	DeviceID string
}

func (k Key) String() string {
	return fmt.Sprintf("session:%d:%s", k.UserID, k.DeviceID)
}

// Store is the key-value abstraction holding device sessions, separate from
// the system of record.
type Store interface {
	// Set upserts the value with an expiration, atomically replacing any
	// prior value for the key.
	Set(ctx context.Context, key Key, value string, ttl time.Duration) error
	// Get returns the current value, or ErrNoSession if missing or expired.
	Get(ctx context.Context, key Key) (string, error)
	// RefreshTTL resets the expiration without changing the value.
	RefreshTTL(ctx context.Context, key Key, ttl time.Duration) error
}

// RedisStore implements Store on a redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key Key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key.String(), value, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key Key) (string, error) {
	value, err := s.client.Get(ctx, key.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	return value, nil
}

func (s *RedisStore) RefreshTTL(ctx context.Context, key Key, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key.String(), ttl).Err(); err != nil {
		return fmt.Errorf("refresh session ttl: %w", err)
	}
	return nil
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
