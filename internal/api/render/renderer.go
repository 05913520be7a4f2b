// Package render turns page data into HTML responses.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/domain/events"
	"github.com/meuseventos/server/internal/forms"
	"github.com/rs/zerolog"
)

// Page names, one template file each.
const (
	PageIndex       = "index"
	PageRegister    = "register"
	PageLogin       = "login"
	PageDashboard   = "dashboard"
	PageCreateEvent = "create_event"
	PageEditEvent   = "edit_event"
	PageError       = "error"
)

var pageTitles = map[string]string{
	PageIndex:       "Início",
	PageRegister:    "Criar conta",
	PageLogin:       "Entrar",
	PageDashboard:   "Painel",
	PageCreateEvent: "Criar evento",
	PageEditEvent:   "Editar evento",
	PageError:       "Erro",
}

// Shared templates parsed into every page.
var partials = []string{"layout.html", "event_fields.html"}

var funcs = template.FuncMap{
	"formatDate": forms.FormatDate,
	"displayDate": func(t time.Time) string {
		return t.Format("02/01/2006")
	},
	"row": func(event events.Event, owned bool, csrfField template.HTML) map[string]any {
		return map[string]any{"Event": event, "Owned": owned, "CSRFField": csrfField}
	},
}

type Renderer struct {
	pages   map[string]*template.Template
	flashes *FlashStore
}

// New parses every page from templates. Each page gets its own clone of the
// layout so their "content" blocks do not collide.
func New(templates fs.FS, flashes *FlashStore) (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(templates, partials...)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageTitles))
	for page := range pageTitles {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", page, err)
		}
		tmpl, err := clone.ParseFS(templates, page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Renderer{pages: pages, flashes: flashes}, nil
}

// Flashes exposes the flash store so handlers can queue messages.
func (r *Renderer) Flashes() *FlashStore {
	return r.flashes
}

// AddFlash queues a one-shot message for the next rendered page.
func (r *Renderer) AddFlash(w http.ResponseWriter, req *http.Request, message string) {
	r.flashes.Add(w, req, message)
}

// HTML renders page with status. The data bag is extended with Flashes,
// CSRFField, CurrentUser and a default Title.
func (r *Renderer) HTML(w http.ResponseWriter, req *http.Request, status int, page string, data map[string]any) {
	logger := zerolog.Ctx(req.Context())

	tmpl, ok := r.pages[page]
	if !ok {
		logger.Error().Str("page", page).Msg("unknown page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = pageTitles[page]
	}
	data["Flashes"] = r.flashes.Consume(w, req)
	data["CSRFField"] = csrf.TemplateField(req)
	if identity, ok := auth.IdentityFromContext(req.Context()); ok {
		data["CurrentUser"] = &identity
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error().Err(err).Str("page", page).Msg("template error")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, status int, message string) {
	r.HTML(w, req, status, PageError, map[string]any{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w http.ResponseWriter, req *http.Request) {
	r.Error(w, req, http.StatusNotFound, "Página não encontrada.")
}

// ServerError logs err with the request logger and renders the 500 page.
func (r *Renderer) ServerError(w http.ResponseWriter, req *http.Request, err error) {
	zerolog.Ctx(req.Context()).Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
	r.Error(w, req, http.StatusInternalServerError, "Ocorreu um erro inesperado. Tente novamente.")
}
