package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meuseventos/server/internal/domain/users"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (_ *users.User, err error) {
	defer observe("create_user", time.Now(), &err)
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (username, name, password_hash)
VALUES ($1, $2, $3)
RETURNING id::text, username, name, password_hash, created_at
`, params.Username, params.Name, params.PasswordHash)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, users.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (_ *users.User, err error) {
	defer observe("get_user_by_username", time.Now(), &err)
	row := r.pool.QueryRow(ctx, `
SELECT id::text, username, name, password_hash, created_at
  FROM users
 WHERE username = $1
`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (_ *users.User, err error) {
	defer observe("get_user", time.Now(), &err)
	id, ok := canonicalUUID(id)
	if !ok {
		return nil, users.ErrUserNotFound
	}
	row := r.pool.QueryRow(ctx, `
SELECT id::text, username, name, password_hash, created_at
  FROM users
 WHERE id = $1::uuid
`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	if err := row.Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}
