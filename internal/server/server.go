package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"rentflow-backend/internal/config"
)

// Stopper drains a background worker, such as the rollover scheduler,
// within the shutdown deadline.
type Stopper func(ctx context.Context)

// Start serves the RentFlow API until ctx is cancelled. On shutdown in-flight
// requests finish first, then every stopper runs under the same deadline.
func Start(ctx context.Context, cfg config.Config, router http.Handler, log *slog.Logger, stoppers ...Stopper) error {
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("rentflow api listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.Info("rentflow api shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	for _, stop := range stoppers {
		stop(shutdownCtx)
	}
	return serveErr
}
