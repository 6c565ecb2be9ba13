package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"rentflow-backend/internal/backup"
	"rentflow-backend/internal/settings"

	"github.com/go-chi/chi/v5"
)

type BackupHandler struct {
	Service        backup.Service
	Settings       *settings.Store
	MaxUploadBytes int64
}

func (h BackupHandler) RegisterRoutes(r chi.Router) {
	r.Get("/backup", h.export)
	r.Post("/restore", h.restore)
}

func (h BackupHandler) export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := backup.WriteJSON(&buf, snap); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"rentflow_backup_%s.json\"", snap.ExportedAt.Format("20060102_150405")))
	_, _ = w.Write(buf.Bytes())
}

// restore accepts the backup as the raw body or as a multipart "file".
func (h BackupHandler) restore(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if isMultipart(r) {
		limit := h.MaxUploadBytes
		if limit <= 0 {
			limit = defaultMaxUpload
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		f, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing backup file")
			return
		}
		defer f.Close()
		body = f
	}
	snap, err := backup.ReadJSON(body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	counts, err := h.Service.Restore(r.Context(), snap)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if h.Settings != nil {
		_ = h.Settings.Load(r.Context())
	}
	writeJSON(w, http.StatusOK, counts)
}
