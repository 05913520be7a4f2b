package handlers

import (
	"errors"
	"net/http"

	"github.com/meuseventos/server/internal/api/middleware"
	"github.com/meuseventos/server/internal/api/render"
	"github.com/meuseventos/server/internal/audit"
	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/domain/users"
	"github.com/meuseventos/server/internal/forms"
	"github.com/meuseventos/server/internal/metrics"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	Users    *users.Service
	Sessions *auth.SessionManager
	Render   *render.Renderer
	Audit    *audit.Logger
}

func NewAuthHandler(usersService *users.Service, sessions *auth.SessionManager, renderer *render.Renderer, auditLogger *audit.Logger) *AuthHandler {
	return &AuthHandler{
		Users:    usersService,
		Sessions: sessions,
		Render:   renderer,
		Audit:    auditLogger,
	}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if redirectAuthenticated(w, r) {
		return
	}
	h.renderRegister(w, r, forms.Register.Empty())
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if redirectAuthenticated(w, r) {
		return
	}
	if !parseForm(w, r, h.Render) {
		return
	}

	form := forms.Register.Bind(r.PostForm)
	if !form.Valid() {
		metrics.UsersRegisteredTotal.WithLabelValues("invalid").Inc()
		h.renderRegister(w, r, form)
		return
	}

	user, err := h.Users.Register(r.Context(), users.RegisterParams{
		Name:     form.Get(forms.FieldName),
		Email:    form.Get(forms.FieldEmail),
		Password: form.Get(forms.FieldPassword),
	})
	if errors.Is(err, users.ErrUsernameTaken) {
		metrics.UsersRegisteredTotal.WithLabelValues("duplicate").Inc()
		h.Audit.LogFailure(r, "user.register", form.Get(forms.FieldEmail), map[string]string{"reason": "email_taken"})
		h.Render.AddFlash(w, r, MsgEmailTaken)
		h.renderRegister(w, r, form)
		return
	}
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}

	metrics.UsersRegisteredTotal.WithLabelValues("created").Inc()
	h.Audit.LogSuccess(r, "user.register", user.Username, "user", user.ID, nil)
	h.Render.AddFlash(w, r, MsgAccountCreated)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, form *forms.Form) {
	h.Render.HTML(w, r, http.StatusOK, render.PageRegister, map[string]any{
		"Form": form.Redacted(),
	})
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if redirectAuthenticated(w, r) {
		return
	}
	h.renderLogin(w, r, forms.Login.Empty())
}

// Login handles POST /login. Unknown users and wrong passwords get the same
// response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if redirectAuthenticated(w, r) {
		return
	}
	if !parseForm(w, r, h.Render) {
		return
	}

	form := forms.Login.Bind(r.PostForm)
	if !form.Valid() {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		h.renderLogin(w, r, form)
		return
	}

	username := form.Get(forms.FieldUsername)
	user, err := h.Users.Authenticate(r.Context(), username, form.Get(forms.FieldLoginSecret))
	if errors.Is(err, users.ErrInvalidCredentials) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		h.Audit.LogFailure(r, "user.login", username, map[string]string{"reason": "invalid_credentials"})
		h.Render.AddFlash(w, r, MsgLoginFailed)
		h.renderLogin(w, r, form)
		return
	}
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}

	if _, err := h.Sessions.Start(r.Context(), w, user.ID, user.Username); err != nil {
		h.Render.ServerError(w, r, err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.Audit.LogSuccess(r, "user.login", user.Username, "user", user.ID, nil)
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, form *forms.Form) {
	data := map[string]any{"Form": form.Redacted()}
	if next := r.URL.Query().Get("next"); next != "" && safeNext(next) == next {
		data["Next"] = next
	}
	h.Render.HTML(w, r, http.StatusOK, render.PageLogin, data)
}

// Logout handles GET /logout. It always succeeds from the visitor's point of
// view; a failure to delete the server-side session is only logged.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, loggedIn := middleware.CurrentUser(r)

	if err := h.Sessions.End(r.Context(), w, r); err != nil {
		middleware.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to end session")
	}
	if loggedIn {
		h.Audit.LogSuccess(r, "user.logout", identity.Username, "user", identity.UserID, nil)
	}

	h.Render.AddFlash(w, r, MsgLoggedOut)
	http.Redirect(w, r, "/", http.StatusFound)
}

// redirectAuthenticated sends signed-in visitors to the dashboard.
func redirectAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middleware.CurrentUser(r); ok {
		http.Redirect(w, r, dashboardPath, http.StatusFound)
		return true
	}
	return false
}
