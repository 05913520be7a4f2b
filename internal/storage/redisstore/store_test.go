package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	client, err := Connect(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client), mr
}

func newSession(ttl time.Duration) auth.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return auth.Session{
		ID:        "0b6f7a1e-6d55-4a4e-8d47-1f0c6f7c9a10",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestCreateAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	session := newSession(time.Hour)

	require.NoError(t, store.Create(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.True(t, got.ExpiresAt.Equal(session.ExpiresAt))
}

func TestGetNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	session := newSession(time.Hour)
	require.NoError(t, store.Create(ctx, session))

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err := store.Get(ctx, session.ID)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
	require.ErrorIs(t, store.Delete(ctx, session.ID), auth.ErrSessionNotFound)
}

func TestSessionExpiresWithTTL(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	session := newSession(time.Minute)
	require.NoError(t, store.Create(ctx, session))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, session.ID)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestCreateRejectsExpiredSession(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.Create(context.Background(), newSession(-time.Minute))
	require.Error(t, err)
}

func TestConnectFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Connect(context.Background(), config.RedisConfig{Addr: addr})
	require.Error(t, err)
}
