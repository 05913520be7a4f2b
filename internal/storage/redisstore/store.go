// Package redisstore keeps login sessions in Redis. Records expire with the
// session itself, so no sweeper is needed.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/config"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "meuseventos:session:"

type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore.Connect: %w", err)
	}
	return client, nil
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type record struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Create(ctx context.Context, session auth.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("redisstore.Create: session already expired")
	}

	data, err := json.Marshal(record{
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("redisstore.Create: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redisstore.Create: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore.Get: %w", err)
	}

	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("redisstore.Get: %w", err)
	}
	return &auth.Session{
		ID:        id,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("redisstore.Delete: %w", err)
	}
	if removed == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ auth.SessionStore = (*SessionStore)(nil)
