package handler

import (
	"encoding/json"
	"net/http"

	"rentflow-backend/internal/settings"

	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	Store *settings.Store
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings/{field}", h.commit)
	r.Post("/settings/reconcile", h.reconcile)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Load(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(h.Store.Current()))
}

func (h SettingsHandler) commit(w http.ResponseWriter, r *http.Request) {
	var value json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s, err := h.Store.Commit(r.Context(), chi.URLParam(r, "field"), value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(s))
}

// reconcile merges an overlay held by the client with the stored server
// settings. Nothing is persisted.
func (h SettingsHandler) reconcile(w http.ResponseWriter, r *http.Request) {
	var overlay settings.Overlay
	if err := json.NewDecoder(r.Body).Decode(&overlay); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s, err := h.Store.With(r.Context(), overlay)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(s))
}

func toSettingsResponse(s settings.Settings) map[string]any {
	return map[string]any{
		"settings": s,
		"themeHsl": s.ThemeHSL(),
	}
}
