package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// healthHandler answers liveness probes with the names of the open graphs.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	app.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
	for _, name := range app.workspace.Names() {
		fmt.Fprintln(w, name)
	}
}

// healthCheckServer initializes and runs the standalone health check HTTP
// server. The editor listener serves /health as well.
func (app *App) healthCheckServer() {
	logger := app.logger
	logger.Debug("Configuring health check server.")
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.healthServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := app.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

// shutdownServer gracefully stops srv. A nil server is a no-op.
func (app *App) shutdownServer(name string, srv *http.Server) error {
	if srv == nil {
		app.logger.Debug("Server was not running.", "server", name)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.logger.Info("Shutting down server...", "server", name)
	if err := srv.Shutdown(ctx); err != nil {
		app.logger.Error("Server shutdown failed", "server", name, "error", err)
		return fmt.Errorf("shutting down %s server: %w", name, err)
	}
	app.logger.Debug("Server shut down gracefully.", "server", name)
	return nil
}
