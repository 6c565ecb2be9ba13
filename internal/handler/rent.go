package handler

import (
	"fmt"
	"net/http"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/server/authctx"
	"rentflow-backend/internal/service"
	"rentflow-backend/internal/settings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RentHandler struct {
	Service  service.RentService
	Settings *settings.Store
}

func (h RentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/rent", h.list)
	r.Get("/rent/export", h.export)
	r.Post("/rent", h.create)
	r.Put("/rent/{id}", h.update)
	r.Post("/rent/{id}/pay", h.pay)
	r.Post("/rent/delete", h.delete)
	r.Post("/rent/undo", h.undo)
}

type rentRequest struct {
	TenantID    uuid.UUID       `json:"tenantId"`
	TenantName  string          `json:"tenantName"`
	Property    string          `json:"property"`
	AvatarURL   string          `json:"avatarUrl"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"dueDate"`
	Status      string          `json:"status"`
	PaymentDate *string         `json:"paymentDate"`
	CollectedBy string          `json:"collectedBy"`
}

func (req rentRequest) toDomain(id uuid.UUID) (domain.RentEntry, error) {
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return domain.RentEntry{}, err
	}
	paid, err := parseOptionalDate("paymentDate", req.PaymentDate)
	if err != nil {
		return domain.RentEntry{}, err
	}
	return domain.RentEntry{
		ID:          id,
		TenantID:    req.TenantID,
		TenantName:  req.TenantName,
		Property:    req.Property,
		AvatarURL:   req.AvatarURL,
		Year:        req.Year,
		Month:       req.Month,
		Amount:      req.Amount,
		DueDate:     due,
		Status:      domain.RentStatus(req.Status),
		PaymentDate: paid,
		CollectedBy: req.CollectedBy,
	}, nil
}

func (h RentHandler) filter(r *http.Request) (ports.RentFilter, error) {
	year, month, err := parsePeriodQuery(r)
	if err != nil {
		return ports.RentFilter{}, err
	}
	f := ports.RentFilter{Year: year, Month: month, Status: domain.RentStatus(r.URL.Query().Get("status"))}
	if v := r.URL.Query().Get("tenantId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return ports.RentFilter{}, domain.Invalid("tenantId", "must be a uuid")
		}
		f.TenantID = &id
	}
	return f, nil
}

func (h RentHandler) list(w http.ResponseWriter, r *http.Request) {
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

func (h RentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req rentRequest
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

func (h RentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req rentRequest
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

// pay marks an entry paid. collectedBy defaults to the signed-in user.
func (h RentHandler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		PaymentDate string `json:"paymentDate"`
		CollectedBy string `json:"collectedBy"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
	}
	paidOn, err := parseDate("paymentDate", req.PaymentDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if req.CollectedBy == "" {
		req.CollectedBy = authctx.Actor(r.Context())
	}
	saved, err := h.Service.MarkPaid(r.Context(), id, paidOn, req.CollectedBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h RentHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Service.Delete)
}

func (h RentHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Service.Undo)
}

func (h RentHandler) export(w http.ResponseWriter, r *http.Request) {
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

	name := "rent_" + time.Now().Format("20060102_150405")
	if f.Year > 0 && f.Month > 0 {
		name = fmt.Sprintf("rent_%04d_%02d", f.Year, f.Month)
	}
	s := sheet{
		Name:   "Rent",
		Header: []string{"Tenant", "Property", "Year", "Month", "Amount", "Due Date", "Status", "Payment Date", "Collected By"},
		Widths: []float64{24, 20, 8, 8, 14, 12, 10, 14, 24},
	}
	for _, e := range items {
		paid := ""
		if e.PaymentDate != nil {
			paid = formatDate(*e.PaymentDate)
		}
		s.Rows = append(s.Rows, []any{
			e.TenantName, e.Property, e.Year, e.Month, e.Amount.InexactFloat64(),
			formatDate(e.DueDate), string(e.Status), paid, e.CollectedBy,
		})
	}
	writeExport(w, r, name, themedSheet(h.Settings, s))
}
