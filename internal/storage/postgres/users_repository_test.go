package postgres

import (
	"context"
	"testing"

	"github.com/meuseventos/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	created, err := repo.Users().Create(ctx, users.CreateParams{
		Username:     "ana@example.com",
		Name:         "Ana",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Len(t, created.ID, 36)
	require.False(t, created.CreatedAt.IsZero())

	byName, err := repo.Users().GetByUsername(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)
	require.Equal(t, "Ana", byName.Name)
	require.Equal(t, "hash", byName.PasswordHash)

	byID, err := repo.Users().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", byID.Username)
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	params := users.CreateParams{Username: "ana@example.com", Name: "Ana", PasswordHash: "hash"}
	_, err = repo.Users().Create(ctx, params)
	require.NoError(t, err)

	_, err = repo.Users().Create(ctx, params)
	require.ErrorIs(t, err, users.ErrUsernameTaken)
}

func TestUserRepositoryNotFound(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	_, err = repo.Users().GetByUsername(ctx, "nobody@example.com")
	require.ErrorIs(t, err, users.ErrUserNotFound)

	_, err = repo.Users().GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, users.ErrUserNotFound)

	_, err = repo.Users().GetByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}
