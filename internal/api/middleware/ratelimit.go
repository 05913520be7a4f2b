package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/meuseventos/server/internal/config"
	"github.com/meuseventos/server/internal/metrics"
	"golang.org/x/time/rate"
)

// loginWindow is the period LoginPer15Minutes is measured over.
const loginWindow = 15 * time.Minute

// LoginLimiter caps login submissions per client IP with a token bucket:
// a burst of LoginPer15Minutes attempts, refilled evenly over 15 minutes.
type LoginLimiter struct {
	store    *limiterStore
	proxies  []*net.IPNet
	rejected http.Handler
}

// NewLoginLimiter builds the limiter and starts its cleanup goroutine; call
// Stop to end it. rejected renders the 429 response; nil writes plain text.
func NewLoginLimiter(cfg config.RateLimitConfig, rejected http.Handler) *LoginLimiter {
	if rejected == nil {
		rejected = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Muitas tentativas de login. Tente novamente mais tarde.", http.StatusTooManyRequests)
		})
	}
	return &LoginLimiter{
		store:    newLimiterStore(cfg.LoginPer15Minutes),
		proxies:  parseCIDRs(cfg.TrustedProxyCIDRs),
		rejected: rejected,
	}
}

// Middleware limits POST requests; showing the login form is never limited.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		limiter := l.store.limiter(clientKey(r, l.proxies))
		if limiter == nil || limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}

		metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
		LoggerFromContext(r.Context()).Warn().
			Str("client_ip", clientKey(r, l.proxies)).
			Msg("login rate limit exceeded")

		w.Header().Set("Retry-After", strconv.Itoa(l.store.retryAfterSeconds()))
		l.rejected.ServeHTTP(w, r)
	})
}

// Stop ends the cleanup goroutine.
func (l *LoginLimiter) Stop() {
	l.store.Stop()
}

type limiterStore struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	burst       int
	stopOnce    sync.Once
	stopCleanup chan struct{}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(perWindow int) *limiterStore {
	store := &limiterStore{
		limiters:    make(map[string]*limiterEntry),
		burst:       perWindow,
		stopCleanup: make(chan struct{}),
	}

	// Entries idle for a full window are dropped so the map cannot grow
	// without bound under a spray of source addresses.
	go store.cleanupLoop()

	return store
}

// interval is the time needed to earn back one attempt.
func (s *limiterStore) interval() time.Duration {
	return loginWindow / time.Duration(s.burst)
}

func (s *limiterStore) retryAfterSeconds() int {
	return int(math.Ceil(s.interval().Seconds()))
}

func (s *limiterStore) limiter(key string) *rate.Limiter {
	if s.burst <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.limiters[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Every(s.interval()), s.burst)
	s.limiters[key] = &limiterEntry{
		limiter:  limiter,
		lastSeen: time.Now(),
	}
	return limiter
}

func (s *limiterStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup(time.Now())
		case <-s.stopCleanup:
			return
		}
	}
}

// cleanup removes limiter entries that haven't been accessed in a window
func (s *limiterStore) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > loginWindow {
			delete(s.limiters, key)
		}
	}
}

func (s *limiterStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// clientKey identifies the client for rate limiting. X-Forwarded-For and
// X-Real-IP are only believed when the connection comes from a trusted proxy.
// Proxies append to X-Forwarded-For, so the chain is read from the right and
// the first hop that is not a trusted proxy is the client. Entries left of it
// are whatever the client chose to send.
func clientKey(r *http.Request, trustedProxies []*net.IPNet) string {
	if r == nil {
		return ""
	}

	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if !isTrustedProxy(remoteIP, trustedProxies) {
		return remoteIP
	}
	if client := forwardedClient(r.Header.Values("X-Forwarded-For"), trustedProxies); client != "" {
		return client
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(realIP) != nil {
		return realIP
	}
	return remoteIP
}

func forwardedClient(headers []string, trustedProxies []*net.IPNet) string {
	var hops []string
	for _, header := range headers {
		hops = append(hops, strings.Split(header, ",")...)
	}

	client := ""
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if net.ParseIP(hop) == nil {
			break
		}
		client = hop
		if !isTrustedProxy(hop, trustedProxies) {
			break
		}
	}
	return client
}

func isTrustedProxy(ip string, trusted []*net.IPNet) bool {
	if len(trusted) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range trusted {
		if cidr.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// parseCIDRs skips malformed entries; config validation reports them.
func parseCIDRs(values []string) []*net.IPNet {
	var out []*net.IPNet
	for _, value := range values {
		_, cidr, err := net.ParseCIDR(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		out = append(out, cidr)
	}
	return out
}
