package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/userdir-io/userdir/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// noDataFoundCode is the PostgreSQL error code raised by the stored
	// routines (update_user) when the target row does not exist
	noDataFoundCode = "P0002"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
// The stored routines signal their failure conditions through error
// codes, never through message text, so no string matching happens here.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		case noDataFoundCode:
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, such as a duplicate email address.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
