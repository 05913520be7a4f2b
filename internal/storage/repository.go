package storage

import (
	"context"
	"time"

	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/domain/events"
	"github.com/meuseventos/server/internal/domain/users"
)

// Repository groups data access by domain.
type Repository interface {
	Users() users.Repository
	Events() events.Repository
	Sessions() SessionRepository

	Ping(ctx context.Context) error
}

// SessionRepository is a session store whose expired rows must be swept
// explicitly.
type SessionRepository interface {
	auth.SessionStore
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
