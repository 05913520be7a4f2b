package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meuseventos/server/internal/auth"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func (r *SessionRepository) Create(ctx context.Context, session auth.Session) (err error) {
	defer observe("create_session", time.Now(), &err)
	_, err = r.pool.Exec(ctx, `
INSERT INTO sessions (id, user_id, created_at, expires_at)
VALUES ($1::uuid, $2::uuid, $3, $4)
`, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (_ *auth.Session, err error) {
	defer observe("get_session", time.Now(), &err)
	id, ok := canonicalUUID(id)
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	var session auth.Session
	err = r.pool.QueryRow(ctx, `
SELECT id::text, user_id::text, created_at, expires_at
  FROM sessions
 WHERE id = $1::uuid
`, id).Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete_session", time.Now(), &err)
	id, ok := canonicalUUID(id)
	if !ok {
		return auth.ErrSessionNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes sessions that expired before the given instant and
// returns how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (_ int64, err error) {
	defer observe("delete_expired_sessions", time.Now(), &err)
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
