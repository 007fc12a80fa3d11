package api

import (
	"errors"
	"net/http"

	"github.com/userdir-io/userdir/internal/domain"
	"github.com/userdir-io/userdir/internal/service/auth"
	"github.com/userdir-io/userdir/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. Unrecognized errors become 500.
func MapErrorToStatusCode(err error) int {
	switch {
	// Validation errors surfaced by the domain layer
	case errors.Is(err, domain.ErrEmptyFirstName),
		errors.Is(err, domain.ErrFirstNameTooLong),
		errors.Is(err, domain.ErrEmptyLastName),
		errors.Is(err, domain.ErrLastNameTooLong),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrEmailTooLong),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type, preventing internal details from leaking to
// clients on the well-known error paths.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrEmptyFirstName),
		errors.Is(err, domain.ErrFirstNameTooLong),
		errors.Is(err, domain.ErrEmptyLastName),
		errors.Is(err, domain.ErrLastNameTooLong),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrEmailTooLong),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort):
		return "Validation failed"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	default:
		return "An unexpected error occurred"
	}
}
