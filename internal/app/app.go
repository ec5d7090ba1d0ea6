// Package app assembles the web application: configuration, logging,
// the analysis service, the router and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"proclens/internal/config"
	"proclens/internal/infrastructure"
	"proclens/internal/services"
	transport "proclens/internal/transport/http"
)

// AppName identifies the application in startup logs.
const AppName = "proclens"

// Application holds the wired components of the web server.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Service *services.AnalysisService
	Router  http.Handler
	Server  *http.Server
}

// NewApplication builds the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	service := services.NewAnalysisServiceWithLogger(cfg, logger)
	router := transport.NewRouter(cfg, service, logger)

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Service: service,
		Router:  router,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
	return app, nil
}

// Start loads the dataset and starts the HTTP server. A failed initial
// load is tolerated: the server comes up not-ready and a later reload
// can recover it.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.Int("port", a.Config.Server.Port),
		slog.String("data_dir", a.Config.Paths.DataDir),
		slog.String("level", a.Config.Logging.Level))

	if err := a.Service.Reload(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Initial dataset load failed, serving not-ready",
			slog.String("error", err.Error()))
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the HTTP server.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
