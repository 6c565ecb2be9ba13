package handler

import (
	"context"
	"net/http"
	"time"

	"rentflow-backend/internal/rollover"

	"github.com/go-chi/chi/v5"
)

type RolloverHandler struct {
	Engine *rollover.Engine
}

func (h RolloverHandler) RegisterRoutes(r chi.Router) {
	r.Post("/rollover", h.both)
	r.Post("/rollover/rent", h.rent)
	r.Post("/rollover/expenses", h.expenses)
}

type periodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// readPeriod reads {year, month}; an empty body means the current month.
func readPeriod(r *http.Request) (periodRequest, error) {
	var req periodRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			return req, err
		}
	}
	if req.Year == 0 && req.Month == 0 {
		now := time.Now()
		req.Year, req.Month = now.Year(), int(now.Month())
	}
	return req, nil
}

func (h RolloverHandler) both(w http.ResponseWriter, r *http.Request) {
	p, err := readPeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Engine.Rollover(r.Context(), p.Year, p.Month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h RolloverHandler) rent(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "rentCreated", h.Engine.SyncRentForPeriod)
}

func (h RolloverHandler) expenses(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "expensesCreated", h.Engine.SyncExpensesFromPreviousMonth)
}

func (h RolloverHandler) run(w http.ResponseWriter, r *http.Request, key string, fn func(context.Context, int, int) (int, error)) {
	p, err := readPeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	n, err := fn(r.Context(), p.Year, p.Month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": p.Year, "month": p.Month, key: n})
}
