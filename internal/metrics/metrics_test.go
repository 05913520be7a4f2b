package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	Init("v1.0.0", "abc123", "2026-01-30")

	if testutil.CollectAndCount(AppInfo) != 1 {
		t.Error("AppInfo should hold exactly one series")
	}

	Init("v1.0.1", "def456", "2026-02-01")
	if testutil.CollectAndCount(AppInfo) != 1 {
		t.Error("Init should replace the previous AppInfo series")
	}
}

func TestHTTPMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()
	HTTPMiddleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if testutil.CollectAndCount(HTTPRequestsTotal) == 0 {
		t.Error("HTTPRequestsTotal should have recorded at least one request")
	}
	if testutil.CollectAndCount(HTTPRequestDuration) == 0 {
		t.Error("HTTPRequestDuration should have recorded at least one request")
	}
}

func TestHTTPMiddlewareStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"OK", http.StatusOK},
		{"See Other", http.StatusSeeOther},
		{"Not Found", http.StatusNotFound},
		{"Too Many Requests", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			req := httptest.NewRequest("GET", "/login", nil)
			rec := httptest.NewRecorder()
			HTTPMiddleware(handler).ServeHTTP(rec, req)

			if rec.Code != tt.statusCode {
				t.Errorf("Expected status %d, got %d", tt.statusCode, rec.Code)
			}
		})
	}
}

func TestCollectPoolStatsWithoutPool(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		CollectPoolStats(ctx, nil, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after context cancellation")
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.Canceled, "canceled"},
		{fmt.Errorf("get event: %w", context.DeadlineExceeded), "timeout"},
		{&pgconn.PgError{Code: "08006"}, "connection"},
		{fmt.Errorf("create event: %w", &pgconn.PgError{Code: "23503"}), "constraint"},
		{&pgconn.PgError{Code: "40001"}, "rollback"},
		{&pgconn.PgError{Code: "57014"}, "operator"},
		{&pgconn.PgError{Code: "42P01"}, "query_error"},
		{errors.New("boom"), "query_error"},
	}
	for _, tt := range tests {
		if got := errorType(tt.err); got != tt.want {
			t.Errorf("errorType(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordQuery(t *testing.T) {
	RecordQuery("test_select", time.Now(), nil)
	if testutil.CollectAndCount(DBQueryDuration) == 0 {
		t.Error("DBQueryDuration should have recorded at least one query")
	}

	RecordQuery("test_failed", time.Now(), context.Canceled)
	if testutil.ToFloat64(DBErrors.WithLabelValues("test_failed", "canceled")) != 1 {
		t.Error("DBErrors should have recorded the canceled query")
	}
}

func TestResponseWriterStatusCode(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	_, _ = rw.Write([]byte("test"))

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected status code 200, got %d", rw.statusCode)
	}
	if rw.bytesWritten != 4 {
		t.Errorf("Expected 4 bytes written, got %d", rw.bytesWritten)
	}
}
