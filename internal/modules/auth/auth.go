package auth

import (
	"context"
	"errors"

	"github.com/stockwise/inventory-backend/internal/modules/user"
)

// ErrInvalidCredentials is returned when an email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service defines the interface for authentication-related business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// VerifyToken validates a bearer token and returns the user id it carries.
	VerifyToken(token string) (string, error)
}

// RegisterRequest holds the data for creating an account.
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Session is an authenticated user together with their bearer token.
type Session struct {
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
}

// ValidationError enumerates per-field failures for a rejected payload.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string { return "The given data was invalid." }
