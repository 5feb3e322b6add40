package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserStore is the user directory behind the gate.
type UserStore interface {
	// Create adds u, or fails with ErrDuplicateEmail.
	Create(ctx context.Context, u User) error
	// Verify returns the user owning the exact (email, password) pair, or
	// ErrInvalidCredentials.
	Verify(ctx context.Context, email, password string) (User, error)
	Ping(ctx context.Context) error
}

// hashPassword is shared by the hashing stores. bcrypt caps input at 72
// bytes; longer passwords are rejected as bad input.
func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, &ValidationError{Msg: "Password must be at most 72 bytes long"}
	}
	return hash, err
}
