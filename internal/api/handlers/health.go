package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/meuseventos/server/internal/metrics"
)

// HealthCheck represents the readiness status of the server
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// CheckResult represents the result of a single dependency check
type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// Check tests one dependency; a nil error means it is usable.
type Check func(ctx context.Context) error

// HealthChecker runs the readiness checks behind /readyz.
type HealthChecker struct {
	checks    map[string]Check
	version   string
	gitCommit string
	timeout   time.Duration
}

func NewHealthChecker(version, gitCommit string) *HealthChecker {
	return &HealthChecker{
		checks:    make(map[string]Check),
		version:   version,
		gitCommit: gitCommit,
		timeout:   2 * time.Second,
	}
}

// AddCheck registers a named dependency check.
func (h *HealthChecker) AddCheck(name string, check Check) *HealthChecker {
	h.checks[name] = check
	return h
}

// Names returns the registered check names in order.
func (h *HealthChecker) Names() []string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Readyz returns 200 when every check passes and 503 otherwise.
func (h *HealthChecker) Readyz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			respondHealth(w, http.StatusServiceUnavailable, "shutting_down")
			return
		default:
		}

		results := h.run(r.Context())

		status := "healthy"
		code := http.StatusOK
		for _, result := range results {
			if result.Status == "fail" {
				status = "unhealthy"
				code = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(HealthCheck{
			Status:    status,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    results,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// run executes the checks concurrently, each under its own timeout so one
// slow dependency cannot starve the others.
func (h *HealthChecker) run(ctx context.Context) map[string]CheckResult {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(h.checks))
	)

	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			start := time.Now()
			err := check(checkCtx)
			result := CheckResult{Status: "pass", LatencyMs: time.Since(start).Milliseconds()}
			gauge := 2.0
			if err != nil {
				result.Status = "fail"
				result.Message = err.Error()
				gauge = 0
			}
			metrics.HealthCheckStatus.WithLabelValues(name).Set(gauge)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

// Healthz returns a lightweight liveness response
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondHealth(w, http.StatusOK, "ok")
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func respondHealth(w http.ResponseWriter, status int, value string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: value})
}
