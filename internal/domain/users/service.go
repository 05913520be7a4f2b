package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meuseventos/server/internal/auth"
	"github.com/rs/zerolog"
)

// Service handles account registration and credential checks
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new user service instance
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// RegisterParams carries an already validated registration form.
// The email doubles as the login username.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account. It returns ErrUsernameTaken without
// writing anything when the email is already registered.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	username := normalizeUsername(params.Email)

	existing, err := s.repo.GetByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	// The unique index still catches a concurrent registration of the same email.
	user, err := s.repo.Create(ctx, CreateParams{
		Username:     username,
		Name:         strings.TrimSpace(params.Name),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Authenticate verifies credentials. Unknown usernames and wrong passwords
// both yield ErrInvalidCredentials after the same amount of hashing work.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			auth.CheckPasswordAgainstDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID returns the user with the given id
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
