package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacicli/internal/services"
	"bacicli/internal/shared/testutil"
	"bacicli/pkg/contracts"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc, paths := completedService(t, "")

	ready := NewHealthHandler(services.NewHealthService(contracts.BuildInfo{Version: "v1.0.0-test"}, paths, svc, logger), logger)
	notReady := NewHealthHandler(services.NewHealthService(contracts.BuildInfo{Version: "v1.0.0-test"}, paths, nil, logger), logger)

	tests := []struct {
		name       string
		handler    http.Handler
		target     string
		wantStatus int
		wantField  string
		wantValue  interface{}
	}{
		{"health", ready.Routes(), "/", http.StatusOK, "status", "ok"},
		{"live", ready.Routes(), "/live", http.StatusOK, "status", "alive"},
		{"ready", ready.Routes(), "/ready", http.StatusOK, "status", "ready"},
		{"not_ready", notReady.Routes(), "/ready", http.StatusServiceUnavailable, "status", "not_ready"},
		{"version", http.HandlerFunc(ready.Version), "/", http.StatusOK, "version", "v1.0.0-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.handler, http.MethodGet, tt.target)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValue, decodeBody(t, rec)[tt.wantField])
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	rec := serve(NewMetricsHandler(nil), http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
