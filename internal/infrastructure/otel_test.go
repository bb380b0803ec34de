package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bacicli/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    "test-service",
		ServiceVersion: "v0.0.0",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  true,
		SampleRatio:    1.0,
	}
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_Twice(t *testing.T) {
	for i := 0; i < 2; i++ {
		providers, err := InitializeOTel(testOTelConfig(), quietLogger())
		require.NoError(t, err)
		require.NoError(t, providers.Shutdown(context.Background()))
	}
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*OTelConfig)
		wantErr     bool
		wantMetrics bool
	}{
		{"metrics only", func(c *OTelConfig) { c.EnableTracing = false }, false, true},
		{"everything disabled", func(c *OTelConfig) {
			c.EnableTracing = false
			c.EnableMetrics = false
		}, false, false},
		{"metric exporter none", func(c *OTelConfig) { c.MetricExporter = "none" }, false, false},
		{"unknown trace exporter", func(c *OTelConfig) { c.TraceExporter = "jaeger" }, true, false},
		{"unknown metric exporter", func(c *OTelConfig) { c.MetricExporter = "statsd" }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testOTelConfig()
			tt.mutate(cfg)

			providers, err := InitializeOTel(cfg, quietLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer providers.Shutdown(context.Background())

			assert.NotNil(t, providers.Meter, "a meter is always available")
			assert.Equal(t, tt.wantMetrics, providers.PrometheusHTTP != nil)
		})
	}
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{MetricExporter: "prometheus", TraceExporter: "stdout", SampleRatio: 0.5})
	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, 0.5, cfg.SampleRatio)

	def := DefaultOTelConfig()
	assert.Equal(t, "baci-trade-report", def.ServiceName)
	assert.True(t, def.EnableMetrics)
}

func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "report.run")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestSpanHelpers(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "analytics.cluster")
	defer span.End()

	SetSpanAttributes(ctx, map[string]interface{}{
		"kind":      "export_product",
		"entities":  10,
		"threshold": 0.8,
		"skipped":   false,
		"years":     []int{2020, 2021},
	})
	AddSpanEvent(ctx, "graph.built", map[string]interface{}{"edges": int64(3)})
	RecordError(ctx, assert.AnError)

	assert.True(t, span.IsRecording())

	// no-ops without a recording span
	SetSpanAttributes(context.Background(), map[string]interface{}{"a": 1})
	RecordError(context.Background(), assert.AnError)
}

func TestPipelineMetrics(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordsLoadedTotal.Add(ctx, 1200)
	metrics.RowsMergedTotal.Add(ctx, 7)
	RecordStage(ctx, metrics, "load", 250*time.Millisecond, nil)
	RecordStage(ctx, metrics, "normalize", time.Second, errors.New("boom"))
	RecordSkippedAnalysis(ctx, metrics, "import_product", "insufficient_entities")
	RecordReportRun(ctx, metrics, nil)

	server := httptest.NewServer(providers.PrometheusHTTP)
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "trade_records_loaded_total")
	assert.Contains(t, text, "report_stage_duration_seconds")
	assert.Contains(t, text, `reason="insufficient_entities"`)
	assert.Contains(t, text, "go_goroutines")
}

func TestNilMetricsAreIgnored(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordStage(ctx, nil, "load", time.Second, nil)
		RecordSkippedAnalysis(ctx, nil, "export_partner", "constant")
		RecordReportRun(ctx, nil, nil)
	})

	noop := NoopPipelineMetrics()
	require.NotNil(t, noop)
	assert.NotPanics(t, func() { RecordReportRun(ctx, noop, assert.AnError) })
}

func TestContextWithSpanTrace(t *testing.T) {
	providers, err := InitializeOTel(testOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "report.run")
	defer span.End()

	ctx = ContextWithSpanTrace(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))

	plain := ContextWithSpanTrace(context.Background())
	assert.NotEmpty(t, GetTraceID(plain), "falls back to a generated id")
}
