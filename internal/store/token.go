package store

import (
	"context"
	"time"
)

// TokenBlacklist records revoked token IDs until their natural expiry.
// Entries may be dropped once expiresAt has passed, since an expired
// token fails validation regardless of revocation state.
type TokenBlacklist interface {
	// Revoke marks the token with the given JWT ID as invalid until expiresAt.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether the token with the given JWT ID has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
