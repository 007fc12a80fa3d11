package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdir-io/userdir/internal/api/shared"
	"github.com/userdir-io/userdir/internal/domain"
	"github.com/userdir-io/userdir/internal/mocks"
	"github.com/userdir-io/userdir/internal/service"
)

func newAuthHandler(userStore *mocks.MockUserStore, tokenService *mocks.MockTokenService) *AuthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := &mocks.MockPasswordHasher{}
	userService := service.NewUserService(userStore, hasher, logger)
	return NewAuthHandler(userService, userStore, tokenService, hasher)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var env map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&env))
	return env
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
		wantField  string
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"first_name": "Ada",
				"last_name":  "Lovelace",
				"email":      "ada@example.com",
				"password":   "secret1",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"first_name": "Ada",
				"last_name":  "Lovelace",
				"email":      "not-an-email",
				"password":   "secret1",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"first_name": "Ada",
				"last_name":  "Lovelace",
				"email":      "ada@example.com",
				"password":   "short",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "password",
		},
		{
			name: "missing first name",
			payload: map[string]interface{}{
				"last_name": "Lovelace",
				"email":     "ada@example.com",
				"password":  "secret1",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "first_name",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := newAuthHandler(
				mocks.NewMockUserStore(),
				&mocks.MockTokenService{Token: "test-token"},
			)

			recorder := postJSON(t, handler.Register, "/api/auth/register", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			env := decodeEnvelope(t, recorder)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, true, env["success"])
				data := env["data"].(map[string]interface{})
				assert.Equal(t, "test-token", data["token"])
				assert.Equal(t, "bearer", data["token_type"])
				assert.Equal(t, float64(3600), data["expires_in"])
				user := data["user"].(map[string]interface{})
				assert.Equal(t, "ada@example.com", user["email"])
				assert.NotContains(t, user, "password_hash")
			} else {
				assert.Equal(t, false, env["success"])
				errs := env["errors"].(map[string]interface{})
				assert.Contains(t, errs, tt.wantField)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := newAuthHandler(userStore, &mocks.MockTokenService{Token: "t"})

	payload := map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "secret1",
	}

	first := postJSON(t, handler.Register, "/api/auth/register", payload)
	assert.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, handler.Register, "/api/auth/register", payload)
	assert.Equal(t, http.StatusConflict, second.Code)

	env := decodeEnvelope(t, second)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Email already exists", env["message"])
}

func TestLogin(t *testing.T) {
	t.Parallel()

	seedUser := func() *mocks.MockUserStore {
		userStore := mocks.NewMockUserStore()
		userStore.Seed(domain.User{
			ID:             1,
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada@example.com",
			HashedPassword: "hashed:secret1",
		})
		return userStore
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(seedUser(), &mocks.MockTokenService{Token: "login-token"})
		recorder := postJSON(t, handler.Login, "/api/auth/login", map[string]interface{}{
			"email":    "ada@example.com",
			"password": "secret1",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		env := decodeEnvelope(t, recorder)
		assert.Equal(t, true, env["success"])
		data := env["data"].(map[string]interface{})
		assert.Equal(t, "login-token", data["token"])
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(seedUser(), &mocks.MockTokenService{Token: "t"})

		unknownEmail := postJSON(t, handler.Login, "/api/auth/login", map[string]interface{}{
			"email":    "nobody@example.com",
			"password": "secret1",
		})
		wrongPassword := postJSON(t, handler.Login, "/api/auth/login", map[string]interface{}{
			"email":    "ada@example.com",
			"password": "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)

		envUnknown := decodeEnvelope(t, unknownEmail)
		envWrong := decodeEnvelope(t, wrongPassword)
		assert.Equal(t, envUnknown["message"], envWrong["message"])
		assert.Equal(t, "Invalid credentials", envWrong["message"])
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(seedUser(), &mocks.MockTokenService{Token: "t"})
		recorder := postJSON(t, handler.Login, "/api/auth/login", map[string]interface{}{
			"email": "not-an-email",
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestMe(t *testing.T) {
	t.Parallel()

	t.Run("authenticated user", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		userStore.Seed(domain.User{ID: 7, FirstName: "Ada", Email: "ada@example.com"})
		handler := newAuthHandler(userStore, &mocks.MockTokenService{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, int64(7))
		recorder := httptest.NewRecorder()
		handler.Me(recorder, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
		env := decodeEnvelope(t, recorder)
		data := env["data"].(map[string]interface{})
		assert.Equal(t, float64(7), data["id"])
	})

	t.Run("missing identity", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(mocks.NewMockUserStore(), &mocks.MockTokenService{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		recorder := httptest.NewRecorder()
		handler.Me(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("user row gone", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(mocks.NewMockUserStore(), &mocks.MockTokenService{})

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, int64(404))
		recorder := httptest.NewRecorder()
		handler.Me(recorder, req.WithContext(ctx))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("revokes the presented token", func(t *testing.T) {
		t.Parallel()

		tokenService := &mocks.MockTokenService{}
		handler := newAuthHandler(mocks.NewMockUserStore(), tokenService)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		ctx := context.WithValue(req.Context(), shared.TokenClaimsContextKey, mocks.TestClaims(1, "jti-1"))
		recorder := httptest.NewRecorder()
		handler.Logout(recorder, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, 1, tokenService.RevokeCalls)

		env := decodeEnvelope(t, recorder)
		assert.Equal(t, "Logged out successfully", env["message"])
	})

	t.Run("unidentifiable token", func(t *testing.T) {
		t.Parallel()

		tokenService := &mocks.MockTokenService{}
		handler := newAuthHandler(mocks.NewMockUserStore(), tokenService)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		recorder := httptest.NewRecorder()
		handler.Logout(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Zero(t, tokenService.RevokeCalls)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("rotates the token", func(t *testing.T) {
		t.Parallel()

		tokenService := &mocks.MockTokenService{Token: "fresh-token"}
		handler := newAuthHandler(mocks.NewMockUserStore(), tokenService)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		ctx := context.WithValue(req.Context(), shared.TokenClaimsContextKey, mocks.TestClaims(1, "jti-old"))
		recorder := httptest.NewRecorder()
		handler.Refresh(recorder, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, 1, tokenService.GenerateCalls)
		assert.Equal(t, 1, tokenService.RevokeCalls)

		env := decodeEnvelope(t, recorder)
		data := env["data"].(map[string]interface{})
		assert.Equal(t, "fresh-token", data["token"])
		assert.Equal(t, "bearer", data["token_type"])
	})

	t.Run("missing claims", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(mocks.NewMockUserStore(), &mocks.MockTokenService{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		recorder := httptest.NewRecorder()
		handler.Refresh(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
