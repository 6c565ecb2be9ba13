package handler

import (
	"fmt"
	"net/http"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/service"
	"rentflow-backend/internal/settings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseHandler struct {
	Service  service.ExpenseService
	Settings *settings.Store
}

func (h ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expenses", h.list)
	r.Get("/expenses/export", h.export)
	r.Post("/expenses", h.create)
	r.Put("/expenses/{id}", h.update)
	r.Post("/expenses/delete", h.delete)
	r.Post("/expenses/undo", h.undo)
}

type expenseRequest struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
}

func (req expenseRequest) toDomain(id uuid.UUID) (domain.Expense, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return domain.Expense{}, err
	}
	return domain.Expense{
		ID:          id,
		Date:        date,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      domain.ExpenseStatus(req.Status),
	}, nil
}

// filter reads startDate/endDate (both inclusive) plus category and status.
func (h ExpenseHandler) filter(r *http.Request) (ports.ExpenseFilter, error) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		return ports.ExpenseFilter{}, domain.Invalid("startDate", "must be a date (YYYY-MM-DD)")
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		return ports.ExpenseFilter{}, domain.Invalid("endDate", "must be a date (YYYY-MM-DD)")
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return ports.ExpenseFilter{}, domain.Invalid("startDate", "must be before endDate")
	}
	f := ports.ExpenseFilter{
		From:     startDate,
		Category: r.URL.Query().Get("category"),
		Status:   domain.ExpenseStatus(r.URL.Query().Get("status")),
	}
	if endDate != nil {
		next := endDate.AddDate(0, 0, 1)
		f.To = &next
	}
	return f, nil
}

func (h ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	e, err := req.toDomain(uuid.Nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	created, err := h.Service.Create(r.Context(), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h ExpenseHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	e, err := req.toDomain(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	saved, err := h.Service.Update(r.Context(), e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h ExpenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Service.Delete)
}

func (h ExpenseHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Service.Undo)
}

func (h ExpenseHandler) export(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	items, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := "expenses_" + time.Now().Format("20060102_150405")
	if f.From != nil && f.To != nil {
		name = fmt.Sprintf("expenses_%s_%s", f.From.Format("20060102"), f.To.AddDate(0, 0, -1).Format("20060102"))
	}
	s := sheet{
		Name:   "Expenses",
		Header: []string{"Date", "Category", "Amount", "Description", "Status"},
		Widths: []float64{12, 20, 14, 36, 10},
	}
	for _, e := range items {
		s.Rows = append(s.Rows, []any{
			formatDate(e.Date), e.Category, e.Amount.InexactFloat64(), e.Description, string(e.Status),
		})
	}
	writeExport(w, r, name, themedSheet(h.Settings, s))
}
