package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks the active token per account so sessions can be
// revoked server side; a bare JWT check would trust a token forever
// within its TTL.
type SessionStore interface {
	Put(ctx context.Context, role Role, subject, token string, ttl time.Duration) error
	Get(ctx context.Context, role Role, subject string) (string, error)
	Delete(ctx context.Context, role Role, subject string) error
}

var ErrSessionNotFound = errors.New("session not found")

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (r *redisSessionStore) Put(ctx context.Context, role Role, subject, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKey(role, subject), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisSessionStore) Get(ctx context.Context, role Role, subject string) (string, error) {
	token, err := r.client.Get(ctx, sessionKey(role, subject)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return token, nil
}

func (r *redisSessionStore) Delete(ctx context.Context, role Role, subject string) error {
	if err := r.client.Del(ctx, sessionKey(role, subject)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(role Role, subject string) string {
	return fmt.Sprintf("session:%s:%s", role, subject)
}
