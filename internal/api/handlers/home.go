package handlers

import (
	"net/http"

	"github.com/meuseventos/server/internal/api/render"
)

type HomeHandler struct {
	Render *render.Renderer
}

func NewHomeHandler(renderer *render.Renderer) *HomeHandler {
	return &HomeHandler{Render: renderer}
}

// Index handles GET /.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.Render.HTML(w, r, http.StatusOK, render.PageIndex, nil)
}

// NotFound renders the 404 page for unmatched paths.
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Render.NotFound(w, r)
}

// TooManyRequests renders the page shown when login attempts are throttled.
func (h *HomeHandler) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	h.Render.Error(w, r, http.StatusTooManyRequests, MsgTooManyLogins)
}
