package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

// ErrForbidden is returned when the acting user does not own the event.
var ErrForbidden = errors.New("event belongs to another user")

type Event struct {
	ID          string
	Name        string
	Description string
	Date        time.Time
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ID          string
	Name        string
	Description string
	Date        time.Time
	OwnerID     string
}

type UpdateParams struct {
	Name        string
	Description string
	Date        time.Time
}

// Repository persists events. Every method is a single statement; there is
// no version column, so concurrent updates resolve as last write wins.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Event, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Event, error)
	Delete(ctx context.Context, id string) error
}
