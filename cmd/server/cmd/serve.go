package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meuseventos/server/internal/api"
	"github.com/meuseventos/server/internal/api/handlers"
	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/config"
	"github.com/meuseventos/server/internal/metrics"
	"github.com/meuseventos/server/internal/storage/postgres"
	"github.com/meuseventos/server/internal/storage/redisstore"
	"github.com/meuseventos/server/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout      = 10 * time.Second
	dbCollectInterval    = 15 * time.Second
	sessionSweepInterval = time.Hour
)

func newServeCmd() *cobra.Command {
	var (
		serverHost string
		serverPort int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the meuseventos HTTP server",
		Long: `Start the meuseventos HTTP server and begin accepting requests.

The server will:
- Load configuration from environment variables (or --config file if provided)
- Apply pending database migrations when DATABASE_MIGRATE_ON_START is true
- Keep sessions in PostgreSQL or Redis depending on SESSION_STORE
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if serverHost != "" {
				cfg.Server.Host = serverHost
			}
			if serverPort != 0 {
				cfg.Server.Port = serverPort
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	cmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger := config.NewLogger(cfg.Logging)
	logger.Info().
		Str("version", Version).
		Str("environment", cfg.Environment).
		Str("session_store", cfg.Session.Store).
		Msg("starting meuseventos server")

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version, nil)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	keys, err := auth.DeriveKeys([]byte(cfg.Session.Secret))
	if err != nil {
		return fmt.Errorf("derive keys: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := postgres.MigrateUp(cfg.Database.URL, ""); err != nil {
			return err
		}
		logger.Info().Msg("database migrations applied")
	}

	poolCtx, poolCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := postgres.NewPool(poolCtx, cfg.Database.URL, cfg.Database.MaxConnections)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	health := handlers.NewHealthChecker(Version, GitCommit).AddCheck("database", repo.Ping)

	var sessions auth.SessionStore
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		store := redisstore.NewSessionStore(client)
		health.AddCheck("redis", store.Ping)
		sessions = store
	default:
		sessions = repo.Sessions()
		group.Go(func() error {
			sweepExpiredSessions(groupCtx, repo.Sessions(), sessionSweepInterval, logger)
			return nil
		})
	}

	group.Go(func() error {
		metrics.CollectPoolStats(groupCtx, pool, dbCollectInterval)
		return nil
	})

	router, err := api.NewRouter(api.Deps{
		Config:   cfg,
		Logger:   logger,
		Keys:     keys,
		Users:    repo.Users(),
		Events:   repo.Events(),
		Sessions: sessions,
		Health:   health,
		Build:    api.BuildInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate},
	})
	if err != nil {
		return err
	}
	defer router.Close()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       10 * time.Second, // Total time to read request
		WriteTimeout:      30 * time.Second, // Total time to write response
		ReadHeaderTimeout: 5 * time.Second,  // Time to read headers
		MaxHeaderBytes:    1 << 20,          // 1 MB max header size
	}

	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return gracefulShutdown(server, logger)
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}
	return nil
}
