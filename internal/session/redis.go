package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"placement-admin/internal/cache"
)

const keyPrefix = "session:"

// RedisStore persists sessions in Redis so they survive restarts. No TTL is
// applied: sessions end only on explicit logout.
type RedisStore struct {
	redis *cache.Redis
}

// NewRedisStore returns a session store backed by the given Redis client.
func NewRedisStore(redis *cache.Redis) *RedisStore {
	return &RedisStore{redis: redis}
}

// Create registers a new session for username and returns it.
func (s *RedisStore) Create(ctx context.Context, username string) (*Session, error) {
	sess := Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.redis.SetJSON(ctx, keyPrefix+sess.Token, sess, 0); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Get looks a session up by token.
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	var sess Session
	found, err := s.redis.GetJSON(ctx, keyPrefix+token, &sess)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &sess, nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.redis.Del(ctx, keyPrefix+token)
}

// SetUsername renames the account on a live session.
func (s *RedisStore) SetUsername(ctx context.Context, token, username string) error {
	sess, err := s.Get(ctx, token)
	if err != nil || sess == nil {
		return err
	}
	sess.Username = username
	return s.redis.SetJSON(ctx, keyPrefix+token, sess, 0)
}
