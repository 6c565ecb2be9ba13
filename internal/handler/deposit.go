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

type DepositHandler struct {
	Deposits       ports.DepositStore
	Files          service.FileManager
	MaxUploadBytes int64
}

func (h DepositHandler) RegisterRoutes(r chi.Router) {
	r.Get("/deposits", h.list)
	r.Post("/deposits", h.create)
	r.Put("/deposits/{id}", h.update)
	r.Post("/deposits/delete", h.delete)
	r.Post("/deposits/undo", h.undo)
}

type depositRequest struct {
	TenantID    *uuid.UUID      `json:"tenantId"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	ReceiptURL  string          `json:"receiptUrl"`
}

func (h DepositHandler) list(w http.ResponseWriter, r *http.Request) {
	var tenantID *uuid.UUID
	if v := r.URL.Query().Get("tenantId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid tenantId")
			return
		}
		tenantID = &id
	}
	items, err := h.Deposits.List(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h DepositHandler) create(w http.ResponseWriter, r *http.Request) {
	d, receipt, ok := h.read(w, r, uuid.New())
	if !ok {
		return
	}
	if receipt != nil {
		url, err := h.Files.Upload(r.Context(), service.BucketReceipts, d.ID, *receipt)
		if err != nil {
			writeErrorWithErr(w, http.StatusBadGateway, "upload receipt", err)
			return
		}
		d.ReceiptURL = url
	}
	created, err := h.Deposits.Create(r.Context(), d)
	if err != nil {
		h.Files.RemoveAll(r.Context(), service.BucketReceipts, []string{d.ReceiptURL})
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h DepositHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	d, receipt, ok := h.read(w, r, id)
	if !ok {
		return
	}
	prev, url := d.ReceiptURL, ""
	if receipt != nil {
		url, err = h.Files.Upload(r.Context(), service.BucketReceipts, d.ID, *receipt)
		if err != nil {
			writeErrorWithErr(w, http.StatusBadGateway, "upload receipt", err)
			return
		}
		d.ReceiptURL = url
	}
	saved, err := h.Deposits.Update(r.Context(), d)
	h.Files.Settle(r.Context(), service.BucketReceipts, prev, url, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h DepositHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Deposits.SoftDelete)
}

func (h DepositHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Deposits.Restore)
}

func (h DepositHandler) read(w http.ResponseWriter, r *http.Request, id uuid.UUID) (domain.Deposit, *domain.Upload, bool) {
	var req depositRequest
	form, err := decodeForm(w, r, h.MaxUploadBytes, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Deposit{}, nil, false
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeServiceError(w, err)
		return domain.Deposit{}, nil, false
	}
	if req.Type == "" {
		req.Type = string(domain.DepositReceived)
	}
	d := domain.Deposit{
		ID:          id,
		TenantID:    req.TenantID,
		Date:        date,
		Amount:      req.Amount,
		Type:        domain.DepositType(req.Type),
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
	}
	if err := service.Validate(d); err != nil {
		writeServiceError(w, err)
		return domain.Deposit{}, nil, false
	}
	receipt, err := formFile(form, "receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file: "+err.Error())
		return domain.Deposit{}, nil, false
	}
	return d, receipt, true
}
