package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/userdir-io/userdir/internal/service/auth"
	"github.com/userdir-io/userdir/internal/store"
)

// MockTokenBlacklist implements store.TokenBlacklist in memory.
type MockTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	RevokeFn    func(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevokedFn func(ctx context.Context, jti string) (bool, error)
}

// NewMockTokenBlacklist creates an empty in-memory blacklist.
func NewMockTokenBlacklist() *MockTokenBlacklist {
	return &MockTokenBlacklist{revoked: make(map[string]time.Time)}
}

var _ store.TokenBlacklist = (*MockTokenBlacklist)(nil)

// Revoke implements store.TokenBlacklist.Revoke.
func (m *MockTokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, jti, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = expiresAt
	return nil
}

// IsRevoked implements store.TokenBlacklist.IsRevoked.
func (m *MockTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

// MockTokenService implements auth.TokenService for handler tests.
type MockTokenService struct {
	Token    string
	Claims   *auth.Claims
	TokenTTL time.Duration
	Err      error

	GenerateFn func(ctx context.Context, userID int64) (string, error)
	ValidateFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
	RevokeFn   func(ctx context.Context, claims *auth.Claims) error

	RevokeCalls   int
	GenerateCalls int
}

var _ auth.TokenService = (*MockTokenService)(nil)

// GenerateToken implements auth.TokenService.GenerateToken.
func (m *MockTokenService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	m.GenerateCalls++
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, userID)
	}
	return m.Token, m.Err
}

// ValidateToken implements auth.TokenService.ValidateToken.
func (m *MockTokenService) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, tokenString)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Claims, nil
}

// RevokeToken implements auth.TokenService.RevokeToken.
func (m *MockTokenService) RevokeToken(ctx context.Context, claims *auth.Claims) error {
	m.RevokeCalls++
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, claims)
	}
	return m.Err
}

// Lifetime implements auth.TokenService.Lifetime.
func (m *MockTokenService) Lifetime() time.Duration {
	if m.TokenTTL != 0 {
		return m.TokenTTL
	}
	return time.Hour
}

// MockPasswordHasher implements auth.PasswordHasher and
// auth.PasswordVerifier without the cost of real bcrypt rounds.
type MockPasswordHasher struct {
	ShouldSucceed bool
	HashErr       error
}

var (
	_ auth.PasswordHasher   = (*MockPasswordHasher)(nil)
	_ auth.PasswordVerifier = (*MockPasswordHasher)(nil)
)

// Hash implements auth.PasswordHasher.Hash.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier.Compare.
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if m.ShouldSucceed || hashedPassword == "hashed:"+password {
		return nil
	}
	return auth.ErrInvalidCredentials
}

// TestClaims builds valid-looking claims for the given user, expiring
// one hour from now.
func TestClaims(userID int64, jti string) *auth.Claims {
	now := time.Now().UTC()
	return &auth.Claims{
		UserID:    userID,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		ID:        jti,
	}
}
