package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdir-io/userdir/internal/store"
)

const testSecret = "test-secret-key-that-is-long-enough!"

// stubBlacklist is an in-memory store.TokenBlacklist. It lives here
// rather than in internal/mocks because that package imports auth.
type stubBlacklist struct {
	revoked map[string]time.Time
}

func newStubBlacklist() *stubBlacklist {
	return &stubBlacklist{revoked: make(map[string]time.Time)}
}

var _ store.TokenBlacklist = (*stubBlacklist)(nil)

func (b *stubBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	b.revoked[jti] = expiresAt
	return nil
}

func (b *stubBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok := b.revoked[jti]
	return ok, nil
}

func testClaims(userID int64, jti string) *Claims {
	now := time.Now().UTC()
	return &Claims{
		UserID:    userID,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
		ID:        jti,
	}
}

func newTestService(t *testing.T, blacklist store.TokenBlacklist) *hmacTokenService {
	t.Helper()

	svc, err := NewTokenService(testSecret, time.Hour, blacklist)
	require.NoError(t, err)
	return svc.(*hmacTokenService)
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := NewTokenService("too-short", time.Hour, newStubBlacklist())
		assert.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		t.Parallel()

		_, err := NewTokenService(testSecret, 0, newStubBlacklist())
		assert.Error(t, err)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, newStubBlacklist())

	token, err := svc.GenerateToken(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, newStubBlacklist())
		_, err := svc.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, newStubBlacklist())
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, newStubBlacklist())
		other, err := NewTokenService(
			"another-secret-key-that-is-long-enough!",
			time.Hour,
			newStubBlacklist(),
		)
		require.NoError(t, err)

		token, err := other.GenerateToken(ctx, 1)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, newStubBlacklist())

		// Issue in the past, validate in the present.
		past := time.Now().Add(-2 * time.Hour)
		svc.timeFunc = func() time.Time { return past }
		token, err := svc.GenerateToken(ctx, 1)
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("correctly signed token without exp", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t, newStubBlacklist())

		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "1",
				ID:      "jti-no-exp",
			},
		})
		token, err := raw.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		t.Parallel()

		blacklist := newStubBlacklist()
		svc := newTestService(t, blacklist)

		token, err := svc.GenerateToken(ctx, 7)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)

		require.NoError(t, svc.RevokeToken(ctx, claims))

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrRevokedToken)
	})
}

func TestRevokeToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, newStubBlacklist())

	t.Run("nil claims rejected", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, svc.RevokeToken(ctx, nil), ErrInvalidToken)
	})

	t.Run("claims without jti rejected", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, svc.RevokeToken(ctx, &Claims{UserID: 1}), ErrInvalidToken)
	})

	t.Run("revoking a valid token twice succeeds", func(t *testing.T) {
		t.Parallel()

		claims := testClaims(9, "jti-double-revoke")
		assert.NoError(t, svc.RevokeToken(ctx, claims))
		assert.NoError(t, svc.RevokeToken(ctx, claims))
	})
}

func TestTokenRotation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t, newStubBlacklist())

	oldToken, err := svc.GenerateToken(ctx, 5)
	require.NoError(t, err)
	oldClaims, err := svc.ValidateToken(ctx, oldToken)
	require.NoError(t, err)

	// Rotation as the refresh handler performs it: issue a replacement,
	// then revoke the presented token.
	newToken, err := svc.GenerateToken(ctx, oldClaims.UserID)
	require.NoError(t, err)
	require.NoError(t, svc.RevokeToken(ctx, oldClaims))

	assert.NotEqual(t, oldToken, newToken)

	_, err = svc.ValidateToken(ctx, oldToken)
	assert.ErrorIs(t, err, ErrRevokedToken)

	newClaims, err := svc.ValidateToken(ctx, newToken)
	require.NoError(t, err)
	assert.Equal(t, int64(5), newClaims.UserID)
}

func TestLifetime(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubBlacklist())
	assert.Equal(t, time.Hour, svc.Lifetime())
}
