package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bacicli/internal/infrastructure"
)

// MetricsHandler exposes the Prometheus registry fed by OpenTelemetry
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a metrics handler. Without a Prometheus
// exporter it falls back to the default registry.
func NewMetricsHandler(providers *infrastructure.OTelProviders) *MetricsHandler {
	var h http.Handler = promhttp.Handler()
	if providers != nil && providers.PrometheusHTTP != nil {
		h = providers.PrometheusHTTP
	}
	return &MetricsHandler{handler: h}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}
