package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders_AllHeaders(t *testing.T) {
	handler := SecurityHeaders(false)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	tests := []struct {
		header   string
		expected string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'self'; style-src 'self'; script-src 'none'; form-action 'self'; frame-ancestors 'none'"},
	}

	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.expected {
			t.Errorf("expected %s: %s, got %s", tt.header, tt.expected, got)
		}
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	tests := []struct {
		name         string
		requireHTTPS bool
		tls          bool
		forwarded    string
		want         bool
	}{
		{"development", false, true, "", false},
		{"production over TLS", true, true, "", true},
		{"production behind https proxy", true, false, "https", true},
		{"production over plain http", true, false, "", false},
		{"production behind http proxy", true, false, "http", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			rec := httptest.NewRecorder()

			SecurityHeaders(tt.requireHTTPS)(okHandler()).ServeHTTP(rec, req)

			got := rec.Header().Get("Strict-Transport-Security")
			if tt.want && got != "max-age=31536000; includeSubDomains" {
				t.Errorf("expected HSTS header, got %q", got)
			}
			if !tt.want && got != "" {
				t.Errorf("expected no HSTS header, got %q", got)
			}
		})
	}
}

func TestSecurityHeaders_AllEndpoints(t *testing.T) {
	handler := SecurityHeaders(false)(okHandler())

	for _, path := range []string{"/", "/login", "/register", "/dashboard", "/static/style.css", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("X-Frame-Options") == "" {
			t.Errorf("%s: missing X-Frame-Options", path)
		}
	}
}
