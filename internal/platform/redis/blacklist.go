// Package redis implements the token blacklist on a Redis backend.
// Revocation entries carry a TTL equal to the remaining token lifetime,
// so the denylist never grows past the set of not-yet-expired tokens.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userdir-io/userdir/internal/store"
)

// keyPrefix namespaces blacklist entries in a shared Redis instance.
const keyPrefix = "revoked:"

// TokenBlacklist implements store.TokenBlacklist using a Redis client.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist creates a Redis-backed token blacklist.
// The client's lifecycle is managed by the caller.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		client: client,
	}
}

// Ensure TokenBlacklist implements the store interface
var _ store.TokenBlacklist = (*TokenBlacklist)(nil)

// Revoke implements store.TokenBlacklist.Revoke. Revoking an already
// revoked token overwrites the entry and is not an error.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Expired tokens fail validation on their own; nothing to record.
		return nil
	}

	if err := b.client.Set(ctx, keyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to record token revocation: %w", err)
	}
	return nil
}

// IsRevoked implements store.TokenBlacklist.IsRevoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := b.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}
