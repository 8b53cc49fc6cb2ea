package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimStore hands out first-writer-wins claims on string keys. The incentive
// issuer uses it to serialize code generation across instances and the refund
// handler uses it to drop replayed settlement confirmations.
type ClaimStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClaimStore wraps a redis client. A nil client degrades to always
// granting the claim; the database unique indexes remain the authority.
func NewClaimStore(client *redis.Client, ttl time.Duration) *ClaimStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ClaimStore{client: client, ttl: ttl}
}

// Claim returns true when the caller is the first to claim the key.
func (s *ClaimStore) Claim(ctx context.Context, key string) (bool, error) {
	if s == nil || s.client == nil {
		return true, nil
	}
	return s.client.SetNX(ctx, key, "1", s.ttl).Result()
}
