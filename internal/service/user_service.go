// Package service implements the orchestration layer between the HTTP
// handlers and the persistence boundary.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/userdir-io/userdir/internal/domain"
	"github.com/userdir-io/userdir/internal/service/auth"
	"github.com/userdir-io/userdir/internal/store"
)

// Page bounds accepted by List. Handlers validate request parameters
// against the same limits before calling the service.
const (
	MinPerPage = 1
	MaxPerPage = 100
)

// Page is one page of users with its pagination metadata.
type Page struct {
	Users       []domain.User
	CurrentPage int
	PerPage     int
	Total       int64
	TotalPages  int64
}

// UserService provides the user directory operations: paginated listing,
// lookup, creation, update, and deletion, each delegating the actual
// mutation to a single stored routine.
type UserService interface {
	// List returns the requested page of users in insertion order together
	// with pagination metadata. A page beyond the available data yields an
	// empty page, not an error.
	List(ctx context.Context, page, perPage int) (*Page, error)

	// Create validates the fields, hashes the password, and creates the
	// user. Returns store.ErrEmailExists when the email is taken.
	Create(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error)

	// Get retrieves a user by ID. Returns store.ErrUserNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// Update modifies a user. An empty password retains the stored hash;
	// a non-empty one is re-hashed. Returns store.ErrUserNotFound or
	// store.ErrEmailExists on the corresponding routine failures.
	Update(ctx context.Context, id int64, firstName, lastName, email, password string) (*domain.User, error)

	// Delete removes a user and returns the number of rows removed.
	// A zero count is surfaced as store.ErrUserNotFound.
	Delete(ctx context.Context, id int64) (int64, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		logger:    logger.With("component", "user_service"),
	}
}

// Ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// List retrieves a page of users plus the total count for metadata.
func (s *UserServiceImpl) List(ctx context.Context, page, perPage int) (*Page, error) {
	offset := (page - 1) * perPage

	users, err := s.userStore.List(ctx, perPage, offset)
	if err != nil {
		s.logger.Error("failed to list users",
			"error", err,
			"page", page,
			"per_page", perPage)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	total, err := s.userStore.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count users", "error", err)
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	// Ceiling division; stays correct when total is not a multiple of perPage.
	totalPages := (total + int64(perPage) - 1) / int64(perPage)

	s.logger.Debug("listed users",
		"page", page,
		"per_page", perPage,
		"returned", len(users),
		"total", total)

	return &Page{
		Users:       users,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
	}, nil
}

// Create validates, hashes, and persists a new user. The email pre-check
// happens implicitly inside create_user; its unique constraint is the
// authoritative guard against concurrent duplicates.
func (s *UserServiceImpl) Create(
	ctx context.Context,
	firstName, lastName, email, password string,
) (*domain.User, error) {
	if err := validateUserFields(firstName, lastName, email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.Create(ctx, store.CreateUserParams{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to create user with existing email", "email", email)
		} else {
			s.logger.Error("failed to create user", "error", err, "email", email)
		}
		return nil, err
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// Get retrieves a user by their ID.
func (s *UserServiceImpl) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found", "user_id", id)
		} else {
			s.logger.Error("failed to retrieve user", "error", err, "user_id", id)
		}
		return nil, err
	}
	return user, nil
}

// Update validates and persists changed fields. A non-empty password is
// re-hashed; an empty one sends NULL so the routine retains the stored hash.
func (s *UserServiceImpl) Update(
	ctx context.Context,
	id int64,
	firstName, lastName, email, password string,
) (*domain.User, error) {
	if err := validateUserFields(firstName, lastName, email); err != nil {
		return nil, err
	}

	var passwordHash *string
	if password != "" {
		if err := domain.ValidatePassword(password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err, "user_id", id)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = &hash
	}

	user, err := s.userStore.Update(ctx, id, store.UpdateUserParams{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			s.logger.Debug("attempted to update non-existent user", "user_id", id)
		case errors.Is(err, store.ErrEmailExists):
			s.logger.Debug("attempted to update to an existing email",
				"user_id", id,
				"new_email", email)
		default:
			s.logger.Error("failed to update user", "error", err, "user_id", id)
		}
		return nil, err
	}

	s.logger.Info("user updated",
		"user_id", user.ID,
		"password_changed", passwordHash != nil)

	return user, nil
}

// Delete removes a user. The routine reports only a row count, so a zero
// count is the not-found signal.
func (s *UserServiceImpl) Delete(ctx context.Context, id int64) (int64, error) {
	deleted, err := s.userStore.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return 0, err
	}
	if deleted == 0 {
		s.logger.Debug("attempted to delete non-existent user", "user_id", id)
		return 0, store.ErrUserNotFound
	}

	s.logger.Info("user deleted", "user_id", id, "deleted_count", deleted)
	return deleted, nil
}

// validateUserFields checks the common name and email constraints shared
// by create and update.
func validateUserFields(firstName, lastName, email string) error {
	if err := domain.ValidateName(firstName, domain.ErrEmptyFirstName, domain.ErrFirstNameTooLong); err != nil {
		return err
	}
	if err := domain.ValidateName(lastName, domain.ErrEmptyLastName, domain.ErrLastNameTooLong); err != nil {
		return err
	}
	return domain.ValidateEmail(email)
}
