package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meuseventos/server/internal/domain/events"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func insertUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, username string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx,
		`INSERT INTO users (username, name, password_hash) VALUES ($1, $2, 'hash') RETURNING id::text`,
		username, username,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func TestEventRepositoryCRUD(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	owner := insertUser(t, ctx, pool, "ana@example.com")
	id := ulid.Make().String()

	created, err := repo.Events().Create(ctx, events.CreateParams{
		ID:          id,
		Name:        "Meetup",
		Description: "Go & café",
		Date:        date(t, "2025-03-01"),
		OwnerID:     owner,
	})
	require.NoError(t, err)
	require.Equal(t, id, created.ID)
	require.Equal(t, owner, created.OwnerID)
	require.Equal(t, "2025-03-01", created.Date.Format("2006-01-02"))

	got, err := repo.Events().GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Go & café", got.Description)

	updated, err := repo.Events().Update(ctx, id, events.UpdateParams{
		Name:        "Meetup 2",
		Description: "",
		Date:        date(t, "2025-04-01"),
	})
	require.NoError(t, err)
	require.Equal(t, "Meetup 2", updated.Name)
	require.Equal(t, "2025-04-01", updated.Date.Format("2006-01-02"))
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, repo.Events().Delete(ctx, id))
	_, err = repo.Events().GetByID(ctx, id)
	require.ErrorIs(t, err, events.ErrNotFound)
	require.ErrorIs(t, repo.Events().Delete(ctx, id), events.ErrNotFound)
}

func TestEventRepositoryUpdateMissing(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	_, err = repo.Events().Update(ctx, ulid.Make().String(), events.UpdateParams{Name: "x", Date: date(t, "2025-01-01")})
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestEventRepositoryListOrdering(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	ana := insertUser(t, ctx, pool, "ana@example.com")
	bia := insertUser(t, ctx, pool, "bia@example.com")

	later := ulid.Make().String()
	sooner := ulid.Make().String()
	theirs := ulid.Make().String()
	for _, p := range []events.CreateParams{
		{ID: later, Name: "Later", Date: date(t, "2025-05-01"), OwnerID: ana},
		{ID: sooner, Name: "Sooner", Date: date(t, "2025-01-01"), OwnerID: ana},
		{ID: theirs, Name: "Theirs", Date: date(t, "2025-03-01"), OwnerID: bia},
	} {
		_, err := repo.Events().Create(ctx, p)
		require.NoError(t, err)
	}

	all, err := repo.Events().List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{sooner, theirs, later}, eventIDs(all))

	mine, err := repo.Events().ListByOwner(ctx, ana)
	require.NoError(t, err)
	require.Equal(t, []string{sooner, later}, eventIDs(mine))

	none, err := repo.Events().ListByOwner(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestDeletingUserCascadesToEvents(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()
	repo, err := NewRepository(pool)
	require.NoError(t, err)

	owner := insertUser(t, ctx, pool, "ana@example.com")
	id := ulid.Make().String()
	_, err = repo.Events().Create(ctx, events.CreateParams{ID: id, Name: "Meetup", Date: date(t, "2025-03-01"), OwnerID: owner})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM users WHERE id::text = $1`, owner)
	require.NoError(t, err)

	_, err = repo.Events().GetByID(ctx, id)
	require.ErrorIs(t, err, events.ErrNotFound)
}

func eventIDs(items []events.Event) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
