package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/meuseventos/server/internal/api/render"
	"github.com/meuseventos/server/internal/metrics"
)

// CSRFExpiredMessage is flashed when a form is submitted with a missing or
// stale token.
const CSRFExpiredMessage = "Sessão do formulário expirou. Tente novamente."

// CSRFProtection guards every state-changing request with gorilla/csrf's
// double-submit token. Forms embed the token with csrf.TemplateField.
//
// A rejected submission never reaches the handler: the user is sent back to
// the page that holds the form (the dashboard for deletes) with a flash
// message. The flash store middleware must run before this one.
//
// When secure is false the site is served over plain HTTP and the Referer
// check that gorilla/csrf applies to HTTPS requests is skipped.
func CSRFProtection(authKey []byte, secure bool, flashes *render.FlashStore) func(http.Handler) http.Handler {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(csrfErrorHandler(flashes)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfErrorHandler(flashes *render.FlashStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.CSRFFailuresTotal.Inc()
		LoggerFromContext(r.Context()).Warn().
			Err(csrf.FailureReason(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("csrf validation failed")

		if flashes != nil {
			flashes.Add(w, r, CSRFExpiredMessage)
		}
		http.Redirect(w, r, csrfRetryTarget(r), http.StatusSeeOther)
	})
}

// csrfRetryTarget is the page holding the rejected form.
func csrfRetryTarget(r *http.Request) string {
	if strings.HasPrefix(r.URL.Path, "/delete_event/") {
		return "/dashboard"
	}
	return r.URL.RequestURI()
}
