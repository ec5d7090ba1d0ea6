package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"proclens/internal/services"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service   *services.AnalysisService
	logger    *slog.Logger
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *services.AnalysisService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service:   service,
		logger:    logger.With(slog.String("handler", "health")),
		startedAt: time.Now(),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /api/health/ready. The server is ready
// once a dataset has been loaded.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ready() {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{
			"status": "not_ready",
			"reason": "dataset not loaded",
		})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":          "ready",
		"dataset_version": h.service.Version(),
	})
}

// GetVersion handles GET /api/version
func (h *HealthHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"version": Version,
	})
}
