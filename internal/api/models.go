package api

import (
	"github.com/userdir-io/userdir/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// The same field contract applies to the directory's create endpoint.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=150"`
	Password  string `json:"password"   validate:"required,min=6"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the payload for the user update endpoint.
// Password is optional: when omitted the stored hash is retained.
type UpdateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=150"`
	Password  string `json:"password"   validate:"omitempty,min=6"`
}

// ListUsersQuery carries the parsed pagination query parameters.
// The field names match the query parameter names so validation errors
// are reported under the keys the client sent.
type ListUsersQuery struct {
	Page  int `validate:"gte=1"`
	Limit int `validate:"gte=1,lte=100"`
}

// AuthData is the data payload for register and login responses.
type AuthData struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
}

// TokenData is the data payload for the token refresh response.
type TokenData struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// DeleteData is the data payload for the user delete response.
type DeleteData struct {
	DeletedRows int64 `json:"deleted_rows"`
}
