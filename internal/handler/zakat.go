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

type ZakatHandler struct {
	Service        service.ZakatService
	Banks          ports.ZakatBankStore
	MaxUploadBytes int64
}

func (h ZakatHandler) RegisterRoutes(r chi.Router) {
	r.Get("/zakat/transactions", h.list)
	r.Get("/zakat/summary", h.summary)
	r.Post("/zakat/transactions", h.create)
	r.Put("/zakat/transactions/{id}", h.update)
	r.Post("/zakat/transactions/delete", h.delete)
	r.Post("/zakat/transactions/undo", h.undo)

	r.Get("/zakat/banks", h.listBanks)
	r.Post("/zakat/banks", h.createBank)
	r.Put("/zakat/banks/{id}", h.updateBank)
	r.Post("/zakat/banks/delete", h.deleteBanks)
	r.Post("/zakat/banks/undo", h.undoBanks)
}

type zakatRequest struct {
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Person      string          `json:"person"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReceiptURL  string          `json:"receiptUrl"`
}

func (h ZakatHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// summary totals the fund: money in, money out and the balance.
func (h ZakatHandler) summary(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	in, out := decimal.Zero, decimal.Zero
	for _, z := range items {
		if z.Type == domain.ZakatIn {
			in = in.Add(z.Amount)
		} else {
			out = out.Add(z.Amount)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalIn":  in,
		"totalOut": out,
		"balance":  in.Sub(out),
	})
}

func (h ZakatHandler) create(w http.ResponseWriter, r *http.Request) {
	z, receipt, ok := h.read(w, r, uuid.Nil)
	if !ok {
		return
	}
	created, err := h.Service.Create(r.Context(), z, receipt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h ZakatHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	z, receipt, ok := h.read(w, r, id)
	if !ok {
		return
	}
	saved, err := h.Service.Update(r.Context(), z, receipt)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h ZakatHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Service.Delete)
}

func (h ZakatHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Service.Undo)
}

func (h ZakatHandler) read(w http.ResponseWriter, r *http.Request, id uuid.UUID) (domain.ZakatTransaction, *domain.Upload, bool) {
	var req zakatRequest
	form, err := decodeForm(w, r, h.MaxUploadBytes, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.ZakatTransaction{}, nil, false
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeServiceError(w, err)
		return domain.ZakatTransaction{}, nil, false
	}
	receipt, err := formFile(form, "receipt")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file: "+err.Error())
		return domain.ZakatTransaction{}, nil, false
	}
	return domain.ZakatTransaction{
		ID:          id,
		Date:        date,
		Type:        domain.ZakatType(req.Type),
		Person:      req.Person,
		Amount:      req.Amount,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
	}, receipt, true
}

type zakatBankRequest struct {
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
	IBAN          string `json:"iban"`
	Notes         string `json:"notes"`
}

func (req zakatBankRequest) toDomain(id uuid.UUID) domain.ZakatBankDetail {
	return domain.ZakatBankDetail{
		ID:            id,
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		AccountNumber: req.AccountNumber,
		IBAN:          req.IBAN,
		Notes:         req.Notes,
	}
}

func (h ZakatHandler) listBanks(w http.ResponseWriter, r *http.Request) {
	items, err := h.Banks.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h ZakatHandler) createBank(w http.ResponseWriter, r *http.Request) {
	var req zakatBankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	b := req.toDomain(uuid.Nil)
	if err := service.Validate(b); err != nil {
		writeServiceError(w, err)
		return
	}
	created, err := h.Banks.Create(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h ZakatHandler) updateBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req zakatBankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	b := req.toDomain(id)
	if err := service.Validate(b); err != nil {
		writeServiceError(w, err)
		return
	}
	saved, err := h.Banks.Update(r.Context(), b)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h ZakatHandler) deleteBanks(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Banks.SoftDelete)
}

func (h ZakatHandler) undoBanks(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Banks.Restore)
}
