package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/meuseventos/server/internal/auth"
)

// LoadUser resolves the session cookie on every request and, when it is
// valid, stores the identity in the request context. A stale or forged
// cookie is cleared so the browser stops sending it. When the session store
// itself fails the cookie is left alone and onError answers the request.
func LoadUser(sessions *auth.SessionManager, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := sessions.Resolve(r)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
			case errors.Is(err, auth.ErrMissingToken):
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSessionNotFound):
				LoggerFromContext(r.Context()).Debug().Err(err).Msg("discarding session cookie")
				sessions.ClearCookie(w)
				next.ServeHTTP(w, r)
			default:
				onError(w, r, err)
			}
		})
	}
}

// RequireUser redirects anonymous visitors to the login page, remembering
// where they were going in ?next=.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the identity loaded by LoadUser.
func CurrentUser(r *http.Request) (auth.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}

// LoginURL is the login page that returns to next after signing in.
func LoginURL(next string) string {
	if next == "" || next == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}
