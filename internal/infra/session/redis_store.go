package session

import (
	"context"
	"fmt"
	"time"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/ports/repository"
)

var _ repository.SessionStore = (*RedisStore)(nil)

// RedisStore keeps per-session checkout state in Redis. Keys expire after
// the session TTL, matching the browser-session-scoped lifetime of the
// original storage.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) sessionKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	v, err := s.client.Get(ctx, s.sessionKey(sessionID, key))
	if err != nil {
		if IsNil(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string) error {
	return s.client.Set(ctx, s.sessionKey(sessionID, key), value, s.ttl)
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, key string) error {
	return s.client.Del(ctx, s.sessionKey(sessionID, key))
}
