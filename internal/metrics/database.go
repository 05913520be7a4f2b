package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DBPoolConnections mirrors pgxpool.Stat, one series per state:
	// total, acquired, idle and max.
	DBPoolConnections = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_connections",
			Help:      "PostgreSQL pool connections by state",
		},
		[]string{"state"},
	)

	DBPoolEmptyAcquires = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_empty_acquires",
			Help:      "Acquires that had to wait for a connection since the pool opened",
		},
	)

	// DBQueryDuration is labelled with the repository operation, e.g.
	// get_event or create_session.
	DBQueryDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Repository call duration in seconds",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	DBErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_errors_total",
			Help:      "Failed repository calls by operation and cause",
		},
		[]string{"operation", "error_type"},
	)
)

// CollectPoolStats publishes pool statistics every interval until ctx is
// done. A nil pool publishes nothing.
func CollectPoolStats(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	if pool == nil {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		recordPoolStat(pool.Stat())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func recordPoolStat(stat *pgxpool.Stat) {
	DBPoolConnections.WithLabelValues("total").Set(float64(stat.TotalConns()))
	DBPoolConnections.WithLabelValues("acquired").Set(float64(stat.AcquiredConns()))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	DBPoolConnections.WithLabelValues("max").Set(float64(stat.MaxConns()))
	DBPoolEmptyAcquires.Set(float64(stat.EmptyAcquireCount()))
}

// RecordQuery observes one repository call. Callers pass only real
// failures; not-found and duplicate outcomes are filtered by the storage
// layer before they get here.
func RecordQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DBErrors.WithLabelValues(operation, errorType(err)).Inc()
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "08":
			return "connection"
		case "23":
			return "constraint"
		case "40":
			return "rollback"
		case "57":
			return "operator"
		}
	}
	return "query_error"
}
