package handler

import (
	"net/http"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WorkDetailHandler struct {
	WorkDetails    ports.WorkDetailStore
	Files          service.FileManager
	MaxUploadBytes int64
}

func (h WorkDetailHandler) RegisterRoutes(r chi.Router) {
	r.Get("/work-details", h.list)
	r.Post("/work-details", h.create)
	r.Put("/work-details/{id}", h.update)
	r.Post("/work-details/delete", h.delete)
	r.Post("/work-details/undo", h.undo)
}

type workDetailRequest struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	ReceiptURL  string          `json:"receiptUrl"`
}

func (h WorkDetailHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.WorkDetails.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h WorkDetailHandler) create(w http.ResponseWriter, r *http.Request) {
	wd, receipt, ok := h.read(w, r, uuid.New())
	if !ok {
		return
	}
	if receipt != nil {
		url, err := h.Files.Upload(r.Context(), service.BucketReceipts, wd.ID, *receipt)
		if err != nil {
			writeErrorWithErr(w, http.StatusBadGateway, "upload receipt", err)
			return
		}
		wd.ReceiptURL = url
	}
	created, err := h.WorkDetails.Create(r.Context(), wd)
	if err != nil {
		h.Files.RemoveAll(r.Context(), service.BucketReceipts, []string{wd.ReceiptURL})
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h WorkDetailHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	wd, receipt, ok := h.read(w, r, id)
	if !ok {
		return
	}
	prev, url := wd.ReceiptURL, ""
	if receipt != nil {
		url, err = h.Files.Upload(r.Context(), service.BucketReceipts, wd.ID, *receipt)
		if err != nil {
			writeErrorWithErr(w, http.StatusBadGateway, "upload receipt", err)
			return
		}
		wd.ReceiptURL = url
	}
	saved, err := h.WorkDetails.Update(r.Context(), wd)
	h.Files.Settle(r.Context(), service.BucketReceipts, prev, url, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h WorkDetailHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.WorkDetails.SoftDelete)
}

func (h WorkDetailHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.WorkDetails.Restore)
}

func (h WorkDetailHandler) read(w http.ResponseWriter, r *http.Request, id uuid.UUID) (domain.WorkDetail, *domain.Upload, bool) {
	var req workDetailRequest
	form, err := decodeForm(w, r, h.MaxUploadBytes, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.WorkDetail{}, nil, false
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeServiceError(w, err)
		return domain.WorkDetail{}, nil, false
	}
	wd := domain.WorkDetail{
		ID:          id,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      req.Status,
		ReceiptURL:  req.ReceiptURL,
	}
	if err := service.Validate(wd); err != nil {
		writeServiceError(w, err)
		return domain.WorkDetail{}, nil, false
	}
	receipt, err := formFile(form, "receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file: "+err.Error())
		return domain.WorkDetail{}, nil, false
	}
	return wd, receipt, true
}
