// Package store provides abstractions for the persistence boundary.
// Every method corresponds to a single atomic stored routine in the
// database; a call either returns a definitive result or fails with no
// mutation observable.
package store

import (
	"context"

	"github.com/userdir-io/userdir/internal/domain"
)

// CreateUserParams carries the positional parameters of the create_user
// stored routine. PasswordHash must already be hashed; the store never
// sees a plaintext password.
type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}

// UpdateUserParams carries the positional parameters of the update_user
// stored routine. A nil PasswordHash instructs the routine to retain the
// stored hash, which is distinct from clearing it.
type UpdateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash *string
}

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user via the create_user routine and returns the
	// created row, including the assigned ID and timestamps.
	// Returns ErrEmailExists if the email is already taken, even when a
	// concurrent request won the race after a passing pre-check.
	Create(ctx context.Context, params CreateUserParams) (*domain.User, error)

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves a stable, insertion-ordered page of users.
	List(ctx context.Context, limit, offset int) ([]domain.User, error)

	// Count returns the total number of users, used for pagination metadata.
	Count(ctx context.Context) (int64, error)

	// Update modifies an existing user via the update_user routine and
	// returns the updated row.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the new email collides with another user's.
	Update(ctx context.Context, id int64, params UpdateUserParams) (*domain.User, error)

	// Delete removes a user by ID and returns the number of rows removed
	// (0 or 1). A zero count signals not-found; callers surface that as
	// ErrUserNotFound. This operation is permanent.
	Delete(ctx context.Context, id int64) (int64, error)
}
