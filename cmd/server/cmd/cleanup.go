package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/meuseventos/server/internal/metrics"
	"github.com/meuseventos/server/internal/storage/postgres"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// expiredSessionDeleter is the part of the PostgreSQL session store the
// sweeper needs. Redis expires sessions on its own.
type expiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

func newCleanupCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired login sessions from PostgreSQL",
		Long: `Delete session rows whose expiry has passed.

The server runs the same sweep every hour while SESSION_STORE=postgres; this
command runs it once, for cron jobs or after a long outage.

Examples:
  server cleanup
  server cleanup --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Would delete sessions that expired before %s\n", time.Now().UTC().Format(time.RFC3339))
				return nil
			}

			pool, err := postgres.NewPool(cmd.Context(), cfg.Database.URL, 1)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo, err := postgres.NewRepository(pool)
			if err != nil {
				return err
			}

			deleted, err := deleteExpiredSessions(cmd.Context(), repo.Sessions(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired sessions\n", deleted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be cleaned without deleting")
	return cmd
}

func deleteExpiredSessions(ctx context.Context, sessions expiredSessionDeleter, now time.Time) (int64, error) {
	deleted, err := sessions.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	metrics.SessionsExpiredDeleted.Add(float64(deleted))
	return deleted, nil
}

// sweepExpiredSessions deletes expired sessions every interval until ctx is
// cancelled. Failures are logged and retried on the next tick.
func sweepExpiredSessions(ctx context.Context, sessions expiredSessionDeleter, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deleted, err := deleteExpiredSessions(ctx, sessions, now)
			if err != nil {
				logger.Error().Err(err).Msg("session sweep failed")
				continue
			}
			if deleted > 0 {
				logger.Info().Int64("deleted", deleted).Msg("expired sessions removed")
			}
		}
	}
}
