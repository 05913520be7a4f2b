package handlers

import (
	"errors"
	"net/http"

	"github.com/meuseventos/server/internal/api/middleware"
	"github.com/meuseventos/server/internal/api/render"
	"github.com/meuseventos/server/internal/audit"
	"github.com/meuseventos/server/internal/auth"
	"github.com/meuseventos/server/internal/domain/events"
	"github.com/meuseventos/server/internal/domain/users"
	"github.com/meuseventos/server/internal/forms"
	"github.com/meuseventos/server/internal/metrics"
)

// EventsHandler serves the dashboard and the event create/edit/delete flows.
// Every route it serves sits behind middleware.RequireUser.
type EventsHandler struct {
	Events *events.Service
	Users  *users.Service
	Render *render.Renderer
	Audit  *audit.Logger
}

func NewEventsHandler(eventsService *events.Service, usersService *users.Service, renderer *render.Renderer, auditLogger *audit.Logger) *EventsHandler {
	return &EventsHandler{
		Events: eventsService,
		Users:  usersService,
		Render: renderer,
		Audit:  auditLogger,
	}
}

// Dashboard handles GET /dashboard.
func (h *EventsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r)

	dashboard, err := h.Events.Dashboard(r.Context(), actor)
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}

	data := map[string]any{
		"todos_eventos": dashboard.All,
		"meus_eventos":  dashboard.Mine,
	}
	if h.Users != nil {
		if user, err := h.Users.GetByID(r.Context(), actor.UserID); err == nil {
			data["Name"] = user.Name
		} else if !errors.Is(err, users.ErrUserNotFound) {
			h.Render.ServerError(w, r, err)
			return
		}
	}
	h.Render.HTML(w, r, http.StatusOK, render.PageDashboard, data)
}

// CreateForm handles GET /create_event.
func (h *EventsHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderCreate(w, r, forms.Event.Empty())
}

// Create handles POST /create_event.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r)
	if !parseForm(w, r, h.Render) {
		return
	}

	form := forms.Event.Bind(r.PostForm)
	input, ok := eventInput(form)
	if !ok {
		metrics.EventOperationsTotal.WithLabelValues("create", "invalid").Inc()
		h.renderCreate(w, r, form)
		return
	}

	event, err := h.Events.Create(r.Context(), actor, input)
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}

	metrics.EventOperationsTotal.WithLabelValues("create", "success").Inc()
	h.Audit.LogSuccess(r, "event.create", actor.Username, "event", event.ID, nil)
	h.Render.AddFlash(w, r, MsgEventCreated)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (h *EventsHandler) renderCreate(w http.ResponseWriter, r *http.Request, form *forms.Form) {
	h.Render.HTML(w, r, http.StatusOK, render.PageCreateEvent, map[string]any{"Form": form})
}

// EditForm handles GET /edit_event/{id}.
func (h *EventsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r)

	event, err := h.Events.GetOwned(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.editLookupFailed(w, r, actor, err)
		return
	}

	form := forms.Event.Empty()
	form.Set(forms.FieldName, event.Name)
	form.Set(forms.FieldDate, forms.FormatDate(event.Date))
	form.Set(forms.FieldDescription, event.Description)
	h.renderEdit(w, r, event, form)
}

// Edit handles POST /edit_event/{id}. Ownership is checked before the form
// is validated.
func (h *EventsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r)

	event, err := h.Events.GetOwned(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.editLookupFailed(w, r, actor, err)
		return
	}
	if !parseForm(w, r, h.Render) {
		return
	}

	form := forms.Event.Bind(r.PostForm)
	input, ok := eventInput(form)
	if !ok {
		metrics.EventOperationsTotal.WithLabelValues("update", "invalid").Inc()
		h.renderEdit(w, r, event, form)
		return
	}

	updated, err := h.Events.Update(r.Context(), actor, event.ID, input)
	if err != nil {
		h.editLookupFailed(w, r, actor, err)
		return
	}

	metrics.EventOperationsTotal.WithLabelValues("update", "success").Inc()
	h.Audit.LogSuccess(r, "event.update", actor.Username, "event", updated.ID, nil)
	h.Render.AddFlash(w, r, MsgEventUpdated)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (h *EventsHandler) renderEdit(w http.ResponseWriter, r *http.Request, event *events.Event, form *forms.Form) {
	h.Render.HTML(w, r, http.StatusOK, render.PageEditEvent, map[string]any{
		"Event": event,
		"Form":  form,
	})
}

func (h *EventsHandler) editLookupFailed(w http.ResponseWriter, r *http.Request, actor auth.Identity, err error) {
	switch {
	case errors.Is(err, events.ErrNotFound):
		metrics.EventOperationsTotal.WithLabelValues("update", "not_found").Inc()
		h.Render.NotFound(w, r)
	case errors.Is(err, events.ErrForbidden):
		metrics.EventOperationsTotal.WithLabelValues("update", "forbidden").Inc()
		h.Audit.LogDenied(r, "event.update", actor.Username, "event", r.PathValue("id"))
		h.Render.AddFlash(w, r, MsgCannotEditEvent)
		http.Redirect(w, r, dashboardPath, http.StatusFound)
	default:
		h.Render.ServerError(w, r, err)
	}
}

// Delete handles POST /delete_event/{id}.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.CurrentUser(r)

	event, err := h.Events.Delete(r.Context(), actor, r.PathValue("id"))
	switch {
	case errors.Is(err, events.ErrNotFound):
		metrics.EventOperationsTotal.WithLabelValues("delete", "not_found").Inc()
		h.Render.NotFound(w, r)
		return
	case errors.Is(err, events.ErrForbidden):
		metrics.EventOperationsTotal.WithLabelValues("delete", "forbidden").Inc()
		h.Audit.LogDenied(r, "event.delete", actor.Username, "event", r.PathValue("id"))
		h.Render.AddFlash(w, r, MsgCannotDeleteEvent)
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	case err != nil:
		h.Render.ServerError(w, r, err)
		return
	}

	metrics.EventOperationsTotal.WithLabelValues("delete", "success").Inc()
	h.Audit.LogSuccess(r, "event.delete", actor.Username, "event", event.ID, map[string]string{"name": event.Name})
	h.Render.AddFlash(w, r, MsgEventDeleted)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// eventInput converts a bound event form. It reports false, with the
// failing field marked, when the form cannot be used.
func eventInput(form *forms.Form) (events.Input, bool) {
	if !form.Valid() {
		return events.Input{}, false
	}
	date, err := forms.ParseDate(form.Get(forms.FieldDate))
	if err != nil {
		form.Errors.Add(forms.FieldDate, "Data inválida. Use o formato AAAA-MM-DD.")
		return events.Input{}, false
	}
	return events.Input{
		Name:        form.Get(forms.FieldName),
		Description: form.Get(forms.FieldDescription),
		Date:        date,
	}, true
}
