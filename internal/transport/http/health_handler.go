package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"bacicli/internal/services"
)

// HealthHandler serves the probes under /api/health and /api/version
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes mounts / for the basic check, /ready and /live
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.probe(h.service.HealthCheck, "ok"))
	r.Get("/ready", h.probe(h.service.ReadinessCheck, "ready"))
	r.Get("/live", h.probe(h.service.LivenessCheck, "alive"))
	return r
}

// probe answers 503 whenever check does not return the healthy status, so
// orchestrators can use the status code alone
func (h *HealthHandler) probe(check func(context.Context) services.HealthStatus, healthy string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := check(r.Context())
		if status.Status != healthy {
			h.logger.DebugContext(r.Context(), "probe failed",
				slog.String("path", r.URL.Path),
				slog.String("status", status.Status))
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, status)
	}
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}
