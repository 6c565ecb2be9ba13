package handler

import (
	"net/http"
	"strconv"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/server/authctx"

	"github.com/go-chi/chi/v5"
)

type ActivityLogHandler struct {
	Store ports.ActivityStore
}

func (h ActivityLogHandler) RegisterRoutes(r chi.Router) {
	r.Post("/logs", h.create)
	r.Get("/logs", h.list)
}

// create stores a log line sent by a client.
func (h ActivityLogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Message   string `json:"message"`
		Actor     string `json:"actor"`
		Type      string `json:"type"`
		Timestamp string `json:"timestamp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		writeServiceError(w, domain.Invalid("title", "is required"))
		return
	}

	ts := time.Now()
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			ts = parsed
		}
	}
	typ := domain.LogInfo
	switch req.Type {
	case "warning":
		typ = domain.LogWarning
	case "error":
		typ = domain.LogError
	}
	actor := req.Actor
	if actor == "" {
		actor = authctx.Actor(r.Context())
	}

	saved, err := h.Store.Create(r.Context(), domain.ActivityLog{
		Title:    req.Title,
		Message:  req.Message,
		Actor:    actor,
		Type:     typ,
		LoggedAt: ts,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h ActivityLogHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	items, err := h.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}
