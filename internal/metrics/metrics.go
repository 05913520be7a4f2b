package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all application metrics
const namespace = "meuseventos"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo is a gauge that exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// HealthCheckStatus tracks readiness check results (0 = fail, 2 = pass)
var HealthCheckStatus = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "health_check_status",
		Help:      "Readiness check status (0=fail, 2=pass)",
	},
	[]string{"check"},
)

// Domain metrics
var (
	// UsersRegisteredTotal counts registration attempts by result
	// (created, duplicate, invalid).
	UsersRegisteredTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Registration attempts by result",
		},
		[]string{"result"},
	)

	// LoginAttemptsTotal counts login attempts by result
	// (success, failure, invalid, rate_limited).
	LoginAttemptsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by result",
		},
		[]string{"result"},
	)

	// EventOperationsTotal counts event mutations by operation and result
	// (success, forbidden, not_found, invalid).
	EventOperationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_operations_total",
			Help:      "Event create/update/delete operations by result",
		},
		[]string{"operation", "result"},
	)

	// CSRFFailuresTotal counts rejected form submissions.
	CSRFFailuresTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csrf_failures_total",
			Help:      "Form submissions rejected by CSRF validation",
		},
	)

	// SessionsExpiredDeleted counts expired session rows removed by the sweeper.
	SessionsExpiredDeleted = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_deleted_total",
			Help:      "Expired sessions deleted by the periodic sweep",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Init records build information. Call once at startup.
func Init(version, commit, buildDate string) {
	AppInfo.Reset()
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
