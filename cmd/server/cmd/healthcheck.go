package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// HealthResponse matches the body of /readyz.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheckResult is the outcome of one health check request.
type HealthCheckResult struct {
	URL        string
	StatusCode int
	Status     string
	IsHealthy  bool
	LatencyMs  int64
	Error      string
}

func newHealthcheckCmd() *cobra.Command {
	var (
		timeout time.Duration
		url     string
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is ready",
		Long: `Performs a readiness check by calling the /readyz endpoint.

This command is used by Docker HEALTHCHECK to monitor container health.
It exits with code 0 if the server is healthy, non-zero otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = defaultHealthURL()
			}

			result := performHealthCheck(cmd.Context(), url, timeout)
			if !result.IsHealthy {
				if result.Error != "" {
					return fmt.Errorf("health check failed: %s", result.Error)
				}
				return fmt.Errorf("unhealthy: status=%s (HTTP %d)", result.Status, result.StatusCode)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "healthy (%dms)\n", result.LatencyMs)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	cmd.Flags().StringVar(&url, "url", "", "readiness URL (default: http://localhost:{SERVER_PORT}/readyz)")
	return cmd
}

func defaultHealthURL() string {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	return fmt.Sprintf("http://localhost:%s/readyz", port)
}

func performHealthCheck(ctx context.Context, url string, timeout time.Duration) HealthCheckResult {
	result := HealthCheckResult{URL: url}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer func() { _ = resp.Body.Close() }()
	result.StatusCode = resp.StatusCode

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		result.Error = fmt.Sprintf("invalid response: %v", err)
		return result
	}
	result.Status = body.Status
	result.IsHealthy = resp.StatusCode == http.StatusOK && body.Status == "healthy"
	return result
}
