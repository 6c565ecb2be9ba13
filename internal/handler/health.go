package handler

import (
	"context"
	"net/http"
	"time"

	"rentflow-backend/internal/ports"

	"github.com/go-chi/chi/v5"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports readiness. It answers outside the API envelope
// so load balancers can read it without auth.
type HealthHandler struct {
	DB ports.HealthChecker
}

func (h HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	report := healthReport{Status: "ok", Checks: map[string]string{"database": "ok"}}
	code := http.StatusOK
	if err := h.DB.Health(ctx); err != nil {
		report.Status = "degraded"
		report.Checks["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	writeRawJSON(w, code, report)
}
