// Package redis holds the access-token blacklist. Redis key TTLs match
// the remaining natural lifetime of each revoked token, so expired
// entries vanish without any sweep of our own.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "bl:"

type BlacklistStore struct {
	client *redis.Client
}

func NewBlacklistStore(client *redis.Client) *BlacklistStore {
	return &BlacklistStore{client: client}
}

func (s *BlacklistStore) key(token string) string {
	return blacklistKeyPrefix + token
}

// Insert records a revoked access token until its natural expiry. A
// token already at or past expiry needs no entry at all.
func (s *BlacklistStore) Insert(ctx context.Context, token, userID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (s *BlacklistStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}

	return n > 0, nil
}
