// Package http wires the chi router for the market analysis API. Each
// handler owns its routes; this file assembles them behind the shared
// middleware chain.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"proclens/internal/config"
	apierrors "proclens/internal/errors"
	"proclens/internal/middleware"
	"proclens/internal/services"
)

// NewRouter builds the API router with the full middleware chain.
func NewRouter(cfg *config.Config, service *services.AnalysisService, logger *slog.Logger) http.Handler {
	errorHandler := apierrors.NewErrorHandler(logger, false)
	metrics := middleware.NewMetrics()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(apierrors.RecoveryMiddleware(errorHandler))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	analysisHandler := NewAnalysisHandler(service, logger, errorHandler)
	healthHandler := NewHealthHandler(service, logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", analysisHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/version", healthHandler.GetVersion)
		})
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}
