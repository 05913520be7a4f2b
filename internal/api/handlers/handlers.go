// Package handlers implements the page flows: account registration, login,
// the dashboard and event create/edit/delete, plus health endpoints.
package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/meuseventos/server/internal/api/render"
)

const dashboardPath = "/dashboard"

// parseForm reads the urlencoded body. On failure (malformed or oversized
// body) it renders a 400 page and returns false.
func parseForm(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) bool {
	if err := r.ParseForm(); err != nil {
		renderer.Error(w, r, http.StatusBadRequest, MsgBadRequest)
		return false
	}
	return true
}

// safeNext returns next when it is a local absolute path, otherwise the
// dashboard. It keeps ?next= from redirecting to another site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return dashboardPath
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return dashboardPath
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return dashboardPath
	}
	return next
}
