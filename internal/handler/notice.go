package handler

import (
	"net/http"
	"strconv"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type NoticeHandler struct {
	Notices        ports.NoticeStore
	Files          service.FileManager
	MaxUploadBytes int64
}

func (h NoticeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notices", h.list)
	r.Post("/notices", h.create)
	r.Put("/notices/{id}", h.update)
	r.Post("/notices/delete", h.delete)
	r.Post("/notices/undo", h.undo)
}

type noticeRequest struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	FileURL string `json:"fileUrl"`
}

func (h NoticeHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Notices.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h NoticeHandler) create(w http.ResponseWriter, r *http.Request) {
	n, file, ok := h.read(w, r, uuid.New())
	if !ok {
		return
	}
	if file != nil {
		url, err := h.Files.Upload(r.Context(), service.BucketNotices, n.ID, *file)
		if err != nil {
			writeErrorWithErr(w, http.StatusBadGateway, "upload file", err)
			return
		}
		n.FileURL = url
	}
	created, err := h.Notices.Create(r.Context(), n)
	if err != nil {
		h.Files.RemoveAll(r.Context(), service.BucketNotices, []string{n.FileURL})
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h NoticeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	n, file, ok := h.read(w, r, id)
	if !ok {
		return
	}
	prev, url := n.FileURL, ""
	if file != nil {
		url, err = h.Files.Upload(r.Context(), service.BucketNotices, n.ID, *file)
		if err != nil {
			writeErrorWithErr(w, http.StatusBadGateway, "upload file", err)
			return
		}
		n.FileURL = url
	}
	saved, err := h.Notices.Update(r.Context(), n)
	h.Files.Settle(r.Context(), service.BucketNotices, prev, url, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h NoticeHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Notices.SoftDelete)
}

func (h NoticeHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Notices.Restore)
}

func (h NoticeHandler) read(w http.ResponseWriter, r *http.Request, id uuid.UUID) (domain.Notice, *domain.Upload, bool) {
	var req noticeRequest
	form, err := decodeForm(w, r, h.MaxUploadBytes, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Notice{}, nil, false
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeServiceError(w, err)
		return domain.Notice{}, nil, false
	}
	n := domain.Notice{ID: id, Date: date, Title: req.Title, Body: req.Body, FileURL: req.FileURL}
	if err := service.Validate(n); err != nil {
		writeServiceError(w, err)
		return domain.Notice{}, nil, false
	}
	file, err := formFile(form, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file: "+err.Error())
		return domain.Notice{}, nil, false
	}
	return n, file, true
}
