package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/userdir-io/userdir/internal/platform/logger"
	"github.com/userdir-io/userdir/internal/store"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA
// signed JWTs plus a blacklist for pre-expiry revocation.
type hmacTokenService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	blacklist     store.TokenBlacklist
	timeFunc      func() time.Time // Injectable for testing
}

// tokenClaims defines the structure of the JWT claims we use.
type tokenClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenService implements TokenService interface
var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a new token service using HMAC-SHA256 signing.
// The blacklist backs logout and refresh rotation; validation consults it
// on every call.
func NewTokenService(
	jwtSecret string,
	tokenLifetime time.Duration,
	blacklist store.TokenBlacklist,
) (TokenService, error) {
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if tokenLifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive")
	}

	return &hmacTokenService{
		signingKey:    []byte(jwtSecret),
		tokenLifetime: tokenLifetime,
		blacklist:     blacklist,
		timeFunc:      time.Now,
	}, nil
}

// GenerateToken creates a signed JWT bound to the given user ID.
// Each token carries a unique jti so it can be revoked individually.
func (s *hmacTokenService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign token",
			"error", err,
			"user_id", userID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a token string and returns the claims if valid.
// A token passes only when its signature verifies, it has not expired,
// and its jti is absent from the blacklist.
func (s *hmacTokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		}
		log.Debug("token validation failed",
			"error", err,
			"error_type", fmt.Sprintf("%T", err))
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Error("failed to check token revocation",
			"error", err,
			"token_id", claims.ID)
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		log.Debug("token validation failed: token revoked",
			"token_id", claims.ID,
			"user_id", claims.UserID)
		return nil, ErrRevokedToken
	}

	// The parser guarantees exp is present; iat stays optional.
	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return &Claims{
		UserID:    claims.UserID,
		Subject:   claims.Subject,
		IssuedAt:  issuedAt,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}

// RevokeToken records the token's jti on the blacklist until the token's
// natural expiry.
func (s *hmacTokenService) RevokeToken(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		logger.FromContext(ctx).Error("failed to revoke token",
			"error", err,
			"token_id", claims.ID,
			"user_id", claims.UserID)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// Lifetime returns the configured access token time-to-live.
func (s *hmacTokenService) Lifetime() time.Duration {
	return s.tokenLifetime
}
