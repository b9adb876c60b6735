package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lovemap/internal/app"
	"lovemap/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// StartServer serves the API until ctx is cancelled, then drains in-flight
// requests before returning.
func StartServer(ctx context.Context, a *app.App, log *logger.LokiLogger) error {
	router := SetupRouter(a, log)
	cfg := a.Config

	srv := &http.Server{
		Addr:         cfg.App.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	slog.Info("Server starting",
		"address", srv.Addr,
		"environment", cfg.App.Environment,
		"database", cfg.Database.Driver,
		"cache", cfg.Cache.Driver,
		"rate_limit_enabled", cfg.RateLimit.Enabled,
		"https_enforced", cfg.App.EnforceHTTPS)

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
