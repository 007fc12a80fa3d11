// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Field length limits enforced before any persistence call. The database
// schema carries the same limits, so these checks are advisory; the
// authoritative enforcement lives in the stored routines.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 150
	MinPasswordLength = 6
)

// Common validation errors
var (
	ErrEmptyFirstName   = errors.New("first name cannot be empty")
	ErrFirstNameTooLong = errors.New("first name must be at most 100 characters long")
	ErrEmptyLastName    = errors.New("last name cannot be empty")
	ErrLastNameTooLong  = errors.New("last name must be at most 100 characters long")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrEmailTooLong     = errors.New("email must be at most 150 characters long")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
)

// User represents a registered user of the directory.
// The ID is a surrogate key assigned by the persistence layer, and the
// timestamps are set by the stored routines on create/update.
type User struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidateName checks a first or last name against the shared length
// constraints. The two errors distinguish which field failed so callers
// can produce per-field messages.
func ValidateName(name string, emptyErr, tooLongErr error) error {
	if strings.TrimSpace(name) == "" {
		return emptyErr
	}
	if len(name) > MaxNameLength {
		return tooLongErr
	}
	return nil
}

// ValidateEmail performs basic well-formedness and length checks on an
// email address. The uniqueness constraint is the database's concern.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !validEmailFormat(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks a plaintext password against the minimum length
// policy. It never inspects the stored hash.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// validEmailFormat performs basic validation of email format: a single @
// with a non-empty local part and a dotted domain. Anything stricter is
// left to the validator tags on the request DTOs.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
