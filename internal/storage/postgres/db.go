package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meuseventos/server/internal/domain/events"
	"github.com/meuseventos/server/internal/domain/users"
	"github.com/meuseventos/server/internal/storage"
)

// Repository implements storage.Repository with a PostgreSQL backend.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

// NewPool opens a connection pool and verifies it with a ping.
func NewPool(ctx context.Context, databaseURL string, maxConns int) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func (r *Repository) Users() users.Repository {
	return &UserRepository{pool: r.pool}
}

func (r *Repository) Events() events.Repository {
	return &EventRepository{pool: r.pool}
}

func (r *Repository) Sessions() storage.SessionRepository {
	return &SessionRepository{pool: r.pool}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// canonicalUUID returns id in the form Postgres accepts for a uuid column.
// Ids that do not parse are unknown by definition.
func canonicalUUID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

var _ storage.Repository = (*Repository)(nil)
