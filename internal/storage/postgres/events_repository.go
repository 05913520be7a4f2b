package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meuseventos/server/internal/domain/events"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

const eventColumns = `id, name, description, event_date, user_id::text, created_at, updated_at`

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (_ *events.Event, err error) {
	defer observe("create_event", time.Now(), &err)
	row := r.pool.QueryRow(ctx, `
INSERT INTO events (id, name, description, event_date, user_id)
VALUES ($1, $2, $3, $4, $5::uuid)
RETURNING `+eventColumns,
		params.ID, params.Name, params.Description, params.Date, params.OwnerID)

	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (_ *events.Event, err error) {
	defer observe("get_event", time.Now(), &err)
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) (_ []events.Event, err error) {
	defer observe("list_events", time.Now(), &err)
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) (_ []events.Event, err error) {
	defer observe("list_events_by_owner", time.Now(), &err)
	ownerID, ok := canonicalUUID(ownerID)
	if !ok {
		return []events.Event{}, nil
	}
	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE user_id = $1::uuid
 ORDER BY event_date, id
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) (_ *events.Event, err error) {
	defer observe("update_event", time.Now(), &err)
	row := r.pool.QueryRow(ctx, `
UPDATE events
   SET name = $2, description = $3, event_date = $4, updated_at = now()
 WHERE id = $1
RETURNING `+eventColumns,
		id, params.Name, params.Description, params.Date)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete_event", time.Now(), &err)
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.Date,
		&event.OwnerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	event.Date = event.Date.UTC()
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	defer rows.Close()

	items := []events.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}
