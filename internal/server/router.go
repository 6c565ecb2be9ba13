package server

import (
	"log/slog"
	"net/http"
	"time"

	"rentflow-backend/internal/config"
	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	home handler.HomeHandler,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	settings handler.SettingsHandler,
	tenants handler.TenantHandler,
	rent handler.RentHandler,
	expenses handler.ExpenseHandler,
	documents handler.DocumentHandler,
	zakat handler.ZakatHandler,
	deposits handler.DepositHandler,
	workDetails handler.WorkDetailHandler,
	notices handler.NoticeHandler,
	rollover handler.RolloverHandler,
	dashboard handler.DashboardHandler,
	backup handler.BackupHandler,
	activity handler.ActivityLogHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	home.RegisterRoutes(r)
	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())
	if cfg.StorageDriver == config.StorageLocal {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Method("GET", "/uploads/*", fs)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		auth.RegisterProtectedRoutes(pr)

		// reads for every role, writes for manager/admin
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleViewer))
			mr.Use(WritesRequire(domain.RoleAdmin, domain.RoleManager))
			mr.Use(NewActivityMiddleware(activity.Store, logger))
			settings.RegisterRoutes(mr)
			tenants.RegisterRoutes(mr)
			rent.RegisterRoutes(mr)
			expenses.RegisterRoutes(mr)
			documents.RegisterRoutes(mr)
			zakat.RegisterRoutes(mr)
			deposits.RegisterRoutes(mr)
			workDetails.RegisterRoutes(mr)
			notices.RegisterRoutes(mr)
			dashboard.RegisterRoutes(mr)
			rollover.RegisterRoutes(mr)
		})
		// admin only
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdmin))
			activity.RegisterRoutes(ar)
			ar.With(NewActivityMiddleware(activity.Store, logger)).Group(backup.RegisterRoutes)
		})
	})

	return r
}
