package handler

import (
	"net/http"
	"strconv"
	"time"

	"rentflow-backend/internal/repository"

	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/summary", h.summary)
	r.Get("/dashboard/series", h.series)
}

// summary reports one period, the current month by default.
func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriodQuery(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	data, err := h.Repo.Summary(r.Context(), year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h DashboardHandler) series(w http.ResponseWriter, r *http.Request) {
	months := 12
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeError(w, http.StatusBadRequest, "months must be between 1 and 60")
			return
		}
		months = n
	}
	items, err := h.Repo.MonthlySeries(r.Context(), months)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}
