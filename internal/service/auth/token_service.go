// Package auth provides the credential and token services: password
// hashing/verification and bearer-token issuance, validation, rotation,
// and revocation.
package auth

import (
	"context"
	"time"
)

// TokenService defines operations for managing bearer authentication tokens.
type TokenService interface {
	// GenerateToken creates a signed token bound to the given user ID.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. It rejects tokens that are malformed, carry a bad signature,
	// have expired, or have been revoked.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// RevokeToken invalidates the token identified by the given claims so
	// that subsequent validation fails even before the token's expiry.
	// Revoking a still-valid token always succeeds.
	RevokeToken(ctx context.Context, claims *Claims) error

	// Lifetime returns the access token time-to-live, used to report
	// expires_in to clients.
	Lifetime() time.Duration
}

// Claims represents the verified contents of a bearer token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID int64

	// Subject is the standard JWT subject claim (stringified user ID).
	Subject string

	// IssuedAt and ExpiresAt bound the token's validity window.
	IssuedAt  time.Time
	ExpiresAt time.Time

	// ID is the unique token identifier (jti), the key under which a
	// revocation is recorded.
	ID string
}
