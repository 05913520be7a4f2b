package postgres

import (
	"errors"
	"time"

	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/domain/events"
	"github.com/meuseventos/server/internal/domain/users"
	"github.com/meuseventos/server/internal/metrics"
)

// observe records latency and failures of one repository call. Domain
// outcomes such as a missing row or a taken username are not failures.
func observe(operation string, start time.Time, errp *error) {
	err := *errp
	switch {
	case errors.Is(err, events.ErrNotFound),
		errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, users.ErrUsernameTaken),
		errors.Is(err, auth.ErrSessionNotFound):
		err = nil
	}
	metrics.RecordQuery(operation, start, err)
}
