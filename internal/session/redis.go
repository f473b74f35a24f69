// internal/session/redis.go
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in Redis so they survive restarts and can be
// shared across instances. Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore with the given session TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

// Create starts a session for the user and returns its token.
func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	key := redisKey(token)
	if err := s.client.HSet(ctx, key, "user_id", userID).Err(); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to set session TTL: %w", err)
	}
	return token, nil
}

// Get resolves a token, returning ErrNotFound for unknown or expired tokens.
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %q: %w", token, err)
	}
	return &Session{Token: token, UserID: userID}, nil
}

// Destroy removes a session.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// SetFlash attaches a one-shot message to the session.
func (s *RedisStore) SetFlash(ctx context.Context, token, message string) error {
	key := redisKey(token)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	if err := s.client.HSet(ctx, key, "flash", message).Err(); err != nil {
		return fmt.Errorf("failed to set flash: %w", err)
	}
	return nil
}

// PopFlash returns and clears the session's flash message.
func (s *RedisStore) PopFlash(ctx context.Context, token string) (string, error) {
	key := redisKey(token)
	message, err := s.client.HGet(ctx, key, "flash").Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get flash: %w", err)
	}
	if err := s.client.HDel(ctx, key, "flash").Err(); err != nil {
		return "", fmt.Errorf("failed to clear flash: %w", err)
	}
	return message, nil
}
