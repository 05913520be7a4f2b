// Package api assembles the HTTP surface: page routes, health and metrics
// endpoints, and the middleware chain around them.
package api

import (
	"fmt"
	"net/http"

	"github.com/meuseventos/server/internal/api/handlers"
	"github.com/meuseventos/server/internal/api/middleware"
	"github.com/meuseventos/server/internal/api/render"
	"github.com/meuseventos/server/internal/audit"
	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/config"
	"github.com/meuseventos/server/internal/domain/events"
	"github.com/meuseventos/server/internal/domain/users"
	"github.com/meuseventos/server/internal/metrics"
	"github.com/meuseventos/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// sessionIssuer is the JWT issuer of session cookies.
const sessionIssuer = "meuseventos"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   config.Config
	Logger   zerolog.Logger
	Keys     auth.Keys
	Users    users.Repository
	Events   events.Repository
	Sessions auth.SessionStore
	Health   *handlers.HealthChecker
	Build    BuildInfo
}

// Router is the application's root handler. Close releases the background
// goroutine of the login rate limiter.
type Router struct {
	handler http.Handler
	limiter *middleware.LoginLimiter
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

func (rt *Router) Close() {
	rt.limiter.Stop()
}

// NewRouter builds every handler and mounts the routes:
//
//	GET  /                    landing page
//	GET  /register, POST      registration
//	GET  /login, POST         login (?next=), POST rate limited
//	GET  /logout              end session
//	GET  /dashboard           all events and the user's own (auth)
//	GET  /create_event, POST  create (auth)
//	GET  /edit_event/{id}, POST  edit, owner only (auth)
//	POST /delete_event/{id}   delete, owner only (auth)
//	GET  /static/, /robots.txt, /healthz, /readyz, /version, /metrics
func NewRouter(deps Deps) (*Router, error) {
	cfg := deps.Config
	logger := deps.Logger
	secure := cfg.Server.Secure()

	flashes := render.NewFlashStore(deps.Keys.FlashHash, deps.Keys.FlashBlock, secure)
	renderer, err := render.New(web.Templates(), flashes)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	tokens := auth.NewJWTManager(string(deps.Keys.SessionJWT), cfg.Session.TTL(), sessionIssuer)
	sessions := auth.NewSessionManager(tokens, deps.Sessions, secure)
	auditLogger := audit.NewLogger(logger)

	usersService := users.NewService(deps.Users, logger)
	eventsService := events.NewService(deps.Events)

	home := handlers.NewHomeHandler(renderer)
	authHandler := handlers.NewAuthHandler(usersService, sessions, renderer, auditLogger)
	eventsHandler := handlers.NewEventsHandler(eventsService, usersService, renderer, auditLogger)
	limiter := middleware.NewLoginLimiter(cfg.RateLimit, http.HandlerFunc(home.TooManyRequests))

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireUser(h)
	}

	pages := http.NewServeMux()
	pages.HandleFunc("GET /{$}", home.Index)
	pages.HandleFunc("GET /register", authHandler.RegisterForm)
	pages.HandleFunc("POST /register", authHandler.Register)
	pages.HandleFunc("GET /login", authHandler.LoginForm)
	pages.Handle("POST /login", limiter.Middleware(http.HandlerFunc(authHandler.Login)))
	pages.HandleFunc("GET /logout", authHandler.Logout)
	pages.Handle("GET /dashboard", protected(eventsHandler.Dashboard))
	pages.Handle("GET /create_event", protected(eventsHandler.CreateForm))
	pages.Handle("POST /create_event", protected(eventsHandler.Create))
	pages.Handle("GET /edit_event/{id}", protected(eventsHandler.EditForm))
	pages.Handle("POST /edit_event/{id}", protected(eventsHandler.Edit))
	pages.Handle("POST /delete_event/{id}", protected(eventsHandler.Delete))
	pages.HandleFunc("/", home.NotFound)

	// Pages get flashes, CSRF and the session; infrastructure endpoints
	// answer without touching any of them.
	var pageChain http.Handler = middleware.LoadUser(sessions, renderer.ServerError)(pages)
	pageChain = middleware.CSRFProtection(deps.Keys.CSRF, secure, flashes)(pageChain)
	pageChain = flashes.Middleware(pageChain)
	pageChain = middleware.RequestSize(middleware.FormMaxBodySize)(pageChain)

	root := http.NewServeMux()
	root.Handle("GET /healthz", handlers.Healthz())
	if deps.Health != nil {
		root.Handle("GET /readyz", deps.Health.Readyz())
	}
	root.Handle("GET /version", VersionHandler(deps.Build))
	if cfg.Metrics.Enabled {
		root.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	root.Handle("/static/", web.StaticHandler())
	root.Handle("GET /robots.txt", web.RobotsTxtHandler())
	root.Handle("/", pageChain)

	var handler http.Handler = root
	handler = middleware.SecurityHeaders(secure)(handler)
	if cfg.Metrics.Enabled {
		handler = metrics.HTTPMiddleware(handler)
	}
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	handler = middleware.Tracing(handler)

	return &Router{handler: handler, limiter: limiter}, nil
}
