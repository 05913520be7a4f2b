package users

import (
	"context"
	"errors"
	"time"
)

// Error types for user domain operations
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type CreateParams struct {
	Username     string
	Name         string
	PasswordHash string
}

// Repository persists users. Create returns ErrUsernameTaken when the
// username already exists; lookups return ErrUserNotFound.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
