package audit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Entry represents a single audit log entry with structured fields
type Entry struct {
	Timestamp    time.Time         `json:"timestamp"`
	Action       string            `json:"action"`
	Actor        string            `json:"actor"`
	ResourceType string            `json:"resource_type,omitempty"`
	ResourceID   string            `json:"resource_id,omitempty"`
	IPAddress    string            `json:"ip_address,omitempty"`
	Status       string            `json:"status"` // "success", "failure" or "denied"
	Details      map[string]string `json:"details,omitempty"`
}

// Logger writes audit entries for account and event changes.
type Logger struct {
	output zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{
		output: logger.With().Str("component", "audit").Logger(),
	}
}

// Log writes an audit entry to the log output
func (l *Logger) Log(entry Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	event := l.output.Info()
	if entry.Status != "success" {
		event = l.output.Warn()
	}
	event.Interface("audit", entry).Msg(entry.Action)
}

// LogSuccess logs a completed operation
func (l *Logger) LogSuccess(r *http.Request, action, actor, resourceType, resourceID string, details map[string]string) {
	l.Log(Entry{
		Action:       action,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ClientIP(r),
		Status:       "success",
		Details:      details,
	})
}

// LogFailure logs a rejected attempt, e.g. a failed login
func (l *Logger) LogFailure(r *http.Request, action, actor string, details map[string]string) {
	l.Log(Entry{
		Action:    action,
		Actor:     actor,
		IPAddress: ClientIP(r),
		Status:    "failure",
		Details:   details,
	})
}

// LogDenied logs an ownership check that refused a mutation
func (l *Logger) LogDenied(r *http.Request, action, actor, resourceType, resourceID string) {
	l.Log(Entry{
		Action:       action,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ClientIP(r),
		Status:       "denied",
	})
}

// ClientIP gets the client IP from proxy headers or RemoteAddr
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	// X-Forwarded-For can contain multiple IPs, take the first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
