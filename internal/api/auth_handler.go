// Package api contains the HTTP handlers, request/response models, and
// the error-to-status mapping for the public REST surface.
package api

import (
	"errors"
	"net/http"

	"github.com/userdir-io/userdir/internal/api/middleware"
	"github.com/userdir-io/userdir/internal/api/shared"
	"github.com/userdir-io/userdir/internal/platform/logger"
	"github.com/userdir-io/userdir/internal/service"
	"github.com/userdir-io/userdir/internal/service/auth"
	"github.com/userdir-io/userdir/internal/store"
)

// bearerTokenType is the token_type reported alongside every issued token.
const bearerTokenType = "bearer"

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService      service.UserService
	userStore        store.UserStore
	tokenService     auth.TokenService
	passwordVerifier auth.PasswordVerifier
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	userStore store.UserStore,
	tokenService auth.TokenService,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userService:      userService,
		userStore:        userStore,
		tokenService:     tokenService,
		passwordVerifier: passwordVerifier,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	user, err := h.userService.Create(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithDetailedError(w, r, http.StatusConflict,
				"Email already exists", "The email address is already in use")
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "User registered successfully", AuthData{
		User:      user,
		Token:     token,
		TokenType: bearerTokenType,
		ExpiresIn: int64(h.tokenService.Lifetime().Seconds()),
	})
}

// Login handles POST /api/auth/login. An unknown email and a wrong
// password produce the identical response so the two cases cannot be
// distinguished by a caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithValidationErrors(w, r, shared.FieldErrors(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Login failed", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Login successful", AuthData{
		User:      user,
		Token:     token,
		TokenType: bearerTokenType,
		ExpiresIn: int64(h.tokenService.Lifetime().Seconds()),
	})
}

// Me handles GET /api/auth/me, returning the current attributes of the
// authenticated user with a fresh lookup.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// The token outlived its user row; treat as unauthenticated.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get user details", err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", user)
}

// Logout handles POST /api/auth/logout, revoking the presented token so
// it fails authentication before its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.tokenService.RevokeToken(r.Context(), claims); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Logout failed", err)
		return
	}

	logger.FromContext(r.Context()).Info("user logged out", "user_id", claims.UserID)
	shared.RespondWithData(w, r, http.StatusOK, "Logged out successfully", nil)
}

// Refresh handles POST /api/auth/refresh, rotating the presented token:
// a replacement is issued and the old token is revoked. An expired or
// revoked token never reaches this handler; the auth middleware rejects
// it with no grace window.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), claims.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Token refresh failed", err)
		return
	}

	if err := h.tokenService.RevokeToken(r.Context(), claims); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Token refresh failed", err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", TokenData{
		Token:     token,
		TokenType: bearerTokenType,
		ExpiresIn: int64(h.tokenService.Lifetime().Seconds()),
	})
}
