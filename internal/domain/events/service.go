package events

import (
	"context"
	"fmt"
	"time"

	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/domain/ids"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Input is a validated event form.
type Input struct {
	Name        string
	Description string
	Date        time.Time
}

// Dashboard holds both lists shown on the dashboard page.
type Dashboard struct {
	All  []Event
	Mine []Event
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, input Input) (*Event, error) {
	if actor.UserID == "" {
		return nil, ErrForbidden
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}

	return s.repo.Create(ctx, CreateParams{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Date:        dateOnly(input.Date),
		OwnerID:     actor.UserID,
	})
}

// Get returns the event with the given id. Malformed ids are reported as
// ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	normalized, err := ids.NormalizeULID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, normalized)
}

// GetOwned returns the event only when actor owns it.
func (s *Service) GetOwned(ctx context.Context, actor auth.Identity, id string) (*Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(event.OwnerID) {
		return nil, ErrForbidden
	}
	return event, nil
}

// Update rewrites the event's fields after checking ownership in the same call.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, input Input) (*Event, error) {
	event, err := s.GetOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, event.ID, UpdateParams{
		Name:        input.Name,
		Description: input.Description,
		Date:        dateOnly(input.Date),
	})
}

// Delete permanently removes the event after checking ownership.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) (*Event, error) {
	event, err := s.GetOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, event.ID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

// ListByOwner returns the events created by ownerID. Callers without an id
// own nothing.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Event, error) {
	if ownerID == "" {
		return []Event{}, nil
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Dashboard(ctx context.Context, actor auth.Identity) (Dashboard, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list events: %w", err)
	}
	mine, err := s.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list own events: %w", err)
	}
	return Dashboard{All: all, Mine: mine}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
