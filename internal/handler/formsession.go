package handler

import (
	"log/slog"
	"net/http"

	"github.com/calloway-dev/formflow/internal/auth"
	"github.com/calloway-dev/formflow/internal/domain"
	"github.com/calloway-dev/formflow/internal/service"
	"github.com/google/uuid"
)

// FormSessionHandler exposes the form session service over HTTP. All routes
// require an authenticated user; the auth middleware guarantees one is in
// context.
type FormSessionHandler struct {
	sessions service.FormSessionService
	logger   *slog.Logger
}

// NewFormSessionHandler creates a new FormSessionHandler.
func NewFormSessionHandler(sessions service.FormSessionService, logger *slog.Logger) *FormSessionHandler {
	return &FormSessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// sessionID parses the {id} path segment.
func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.Invalid("", "Malformed session id")
	}
	return id, nil
}

// Open handles POST /api/forms.
func (h *FormSessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)

	var req struct {
		EntityType    string         `json:"entityType"`
		Mode          string         `json:"mode"`
		EntityID      string         `json:"entityId"`
		InitialValues map[string]any `json:"initialValues"`
	}
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	snap, err := h.sessions.Open(r.Context(), user, auth.GetSessionToken(r.Context()), service.OpenParams{
		EntityType:    req.EntityType,
		Mode:          req.Mode,
		EntityID:      req.EntityID,
		InitialValues: req.InitialValues,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, snap)
}

// Get handles GET /api/forms/{id}.
func (h *FormSessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	snap, err := h.sessions.Get(r.Context(), user, id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, snap)
}

// SetField handles PATCH /api/forms/{id}/fields.
func (h *FormSessionHandler) SetField(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	snap, err := h.sessions.SetField(r.Context(), user, id, req.Name, req.Value)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, snap)
}

// ActiveField handles POST /api/forms/{id}/active-field. It records which
// field has focus and returns that field's guidance.
func (h *FormSessionHandler) ActiveField(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	guidance, err := h.sessions.SetActiveField(r.Context(), user, id, req.Name)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, guidance)
}

// Template handles POST /api/forms/{id}/template.
func (h *FormSessionHandler) Template(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req struct {
		TemplateID string `json:"templateId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	snap, err := h.sessions.ApplyTemplate(r.Context(), user, id, req.TemplateID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, snap)
}

// Wizard handles POST /api/forms/{id}/wizard/{action} where action is one of
// next, previous, skip, or jump.
func (h *FormSessionHandler) Wizard(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// The body is only required for "jump"; next/previous/skip may post an
	// empty body.
	var req struct {
		Step int `json:"step"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
	}

	snap, err := h.sessions.Wizard(r.Context(), user, id, r.PathValue("action"), req.Step)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, snap)
}

// Prefill handles POST /api/forms/{id}/prefill.
func (h *FormSessionHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	snap, err := h.sessions.Prefill(r.Context(), user, id, req.Prompt)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, snap)
}

// Submit handles POST /api/forms/{id}/submit.
//
// Validation failures and upstream rejections are part of the result body,
// not HTTP errors: the request itself succeeded even when the submission
// did not.
func (h *FormSessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	result, err := h.sessions.Submit(r.Context(), user, id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}

// Close handles DELETE /api/forms/{id}. The saved draft, if any, survives.
func (h *FormSessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	id, err := sessionID(r)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.sessions.Close(r.Context(), user, id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
