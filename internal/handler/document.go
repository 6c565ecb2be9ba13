package handler

import (
	"net/http"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type DocumentHandler struct {
	Service        service.DocumentService
	MaxUploadBytes int64
}

func (h DocumentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/documents", h.list)
	r.Post("/documents", h.create)
	r.Put("/documents/{id}", h.update)
	r.Post("/documents/delete", h.delete)
	r.Post("/documents/undo", h.undo)
}

type documentRequest struct {
	Category    string `json:"category"`
	FileURL     string `json:"fileUrl"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType"`
	Description string `json:"description"`
}

func (h DocumentHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h DocumentHandler) create(w http.ResponseWriter, r *http.Request) {
	d, file, ok := h.read(w, r, uuid.Nil)
	if !ok {
		return
	}
	created, err := h.Service.Create(r.Context(), d, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h DocumentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	d, file, ok := h.read(w, r, id)
	if !ok {
		return
	}
	saved, err := h.Service.Update(r.Context(), d, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h DocumentHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Service.Delete)
}

func (h DocumentHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Service.Undo)
}

func (h DocumentHandler) read(w http.ResponseWriter, r *http.Request, id uuid.UUID) (domain.Document, *domain.Upload, bool) {
	var req documentRequest
	form, err := decodeForm(w, r, h.MaxUploadBytes, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Document{}, nil, false
	}
	if req.Category == "" {
		req.Category = formValue(form, "category")
	}
	if req.Description == "" {
		req.Description = formValue(form, "description")
	}
	file, err := formFile(form, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file: "+err.Error())
		return domain.Document{}, nil, false
	}
	return domain.Document{
		ID:          id,
		Category:    req.Category,
		FileURL:     req.FileURL,
		FileName:    req.FileName,
		MimeType:    req.MimeType,
		Description: req.Description,
	}, file, true
}
