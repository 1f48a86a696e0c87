package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const oauthStatePrefix = "oauth_state:"

// StateStore persists short-lived OAuth state tokens.
type StateStore interface {
	Set(ctx context.Context, state, data string) error
	Get(ctx context.Context, state string) (string, error)
	Delete(ctx context.Context, state string) error
}

// RedisStateStore stores OAuth states in Redis with a TTL, so the
// callback can land on any instance.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore creates a new Redis-backed state store.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisStateStore{client: client, ttl: ttl}
}

// Set stores a state with data.
func (s *RedisStateStore) Set(ctx context.Context, state, data string) error {
	return s.client.Set(ctx, oauthStatePrefix+state, data, s.ttl).Err()
}

// Get retrieves data for a state.
func (s *RedisStateStore) Get(ctx context.Context, state string) (string, error) {
	data, err := s.client.Get(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidOAuthState
		}
		return "", err
	}
	return data, nil
}

// Delete removes a state.
func (s *RedisStateStore) Delete(ctx context.Context, state string) error {
	return s.client.Del(ctx, oauthStatePrefix+state).Err()
}
