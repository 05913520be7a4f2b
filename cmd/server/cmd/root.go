package cmd

import (
	"fmt"
	"os"

	"github.com/meuseventos/server/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string
)

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "server",
		Short: "meuseventos - multi-user event management web app",
		Long: `meuseventos serves the event management web application: account
registration, login, and a dashboard where signed-in users create, edit and
delete their own events.

Configuration comes from environment variables, optionally layered over a
YAML file given with --config.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (optional, uses env vars by default)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	serve := newServeCmd()
	root.RunE = serve.RunE

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newCleanupCmd())
	root.AddCommand(newHealthcheckCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute is called by main.main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies the logging flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
