package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/server/authctx"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewActivityMiddleware records every successful write in the audit trail.
// Reads are not recorded. A failed insert is logged and the response is
// left alone.
func NewActivityMiddleware(store ports.ActivityStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusBadRequest {
				return
			}
			entry := domain.ActivityLog{
				Title:    r.Method + " " + routePattern(r),
				Message:  r.URL.Path,
				Actor:    authctx.Actor(r.Context()),
				Type:     domain.LogInfo,
				LoggedAt: time.Now(),
			}
			// the request context may already be cancelled by the client
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
			defer cancel()
			if _, err := store.Create(ctx, entry); err != nil {
				logger.Warn("record activity failed", "title", entry.Title, "err", err)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
