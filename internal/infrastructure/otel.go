package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"bacicli/internal/config"
	"bacicli/pkg/contracts"
)

const (
	// ServiceName is the OTel service name when the config leaves it empty
	ServiceName = "baci-trade-report"
	// MeterName scopes the tracer and meter of the pipeline
	MeterName = "bacicli"
)

// OTelConfig selects the exporters. Spans are created even with the "none"
// trace exporter so trace ids still reach the logs.
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // stdout | none
	MetricExporter string // prometheus | none
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelProviders is what InitializeOTel sets up. With metrics off, Meter is a
// no-op meter and PrometheusHTTP is nil.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Registry       *promclient.Registry
	Logger         *slog.Logger
}

func DefaultOTelConfig() *OTelConfig {
	return OTelConfigFrom(config.Default().Telemetry)
}

// OTelConfigFrom maps the telemetry config section. The deployment
// environment comes from ENVIRONMENT.
func OTelConfigFrom(cfg config.TelemetryConfig) *OTelConfig {
	out := &OTelConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    os.Getenv("ENVIRONMENT"),
		TraceExporter:  cfg.TraceExporter,
		MetricExporter: cfg.MetricExporter,
		EnableMetrics:  cfg.EnableMetrics,
		EnableTracing:  cfg.EnableTracing,
		SampleRatio:    cfg.SampleRatio,
	}
	if out.ServiceName == "" {
		out.ServiceName = ServiceName
	}
	if out.Environment == "" {
		out.Environment = "development"
	}
	return out
}

// InitializeOTel installs the global tracer provider, meter provider and
// W3C propagators. Every call builds a private Prometheus registry, so tests
// and repeated runs can initialize more than once.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	p := &OTelProviders{
		Logger: logger,
		Tracer: otel.Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
	}
	if cfg.EnableTracing {
		if err := p.setupTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if cfg.EnableMetrics {
		if err := p.setupMetrics(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", exporterName(cfg.EnableTracing, cfg.TraceExporter)),
		slog.String("metric_exporter", exporterName(cfg.EnableMetrics, cfg.MetricExporter)),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return p, nil
}

func exporterName(enabled bool, name string) string {
	if !enabled {
		return "disabled"
	}
	return name
}

func newResource(ctx context.Context, cfg *OTelConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.ServiceInstanceID(instanceID()),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("baci.data_release", contracts.DataRelease),
	}
	if host, err := os.Hostname(); err == nil {
		attrs = append(attrs, semconv.HostName(host))
	}
	// only our own attributes, so the schema URL cannot conflict with a detector's
	return resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(attrs...),
	)
}

func (p *OTelProviders) setupTracing(cfg *OTelConfig, res *resource.Resource) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	p.TracerProvider = tp
	p.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	return nil
}

func (p *OTelProviders) setupMetrics(cfg *OTelConfig, res *resource.Resource) error {
	switch cfg.MetricExporter {
	case "prometheus":
	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	p.MeterProvider = mp
	p.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	p.Registry = registry
	p.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return nil
}

// PipelineMetrics holds the report pipeline's instruments
type PipelineMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Pipeline metrics
	ReportRunsTotal     metric.Int64Counter
	StageDuration       metric.Float64Histogram
	RecordsLoadedTotal  metric.Int64Counter
	RowsMergedTotal     metric.Int64Counter
	UnmatchedCodesTotal metric.Int64Counter
	AnalysesSkipped     metric.Int64Counter
	ArtifactsWritten    metric.Int64Counter
}

// CreatePipelineMetrics registers the HTTP and pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}

	counters := []struct {
		dst         *metric.Int64Counter
		name        string
		description string
	}{
		{&m.HTTPRequestsTotal, "http_requests_total", "Total number of HTTP requests"},
		{&m.ReportRunsTotal, "report_runs_total", "Total number of report pipeline runs"},
		{&m.RecordsLoadedTotal, "trade_records_loaded_total", "Raw trade rows read from BACI files"},
		{&m.RowsMergedTotal, "trade_rows_merged_total", "Rows folded into a merged product category"},
		{&m.UnmatchedCodesTotal, "trade_unmatched_codes_total", "Country or product codes with no entry in the code tables"},
		{&m.AnalysesSkipped, "analyses_skipped_total", "Cluster and graph analyses skipped on degenerate input"},
		{&m.ArtifactsWritten, "report_artifacts_written_total", "Output files written by the exporter and chart renderer"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	histograms := []struct {
		dst         *metric.Float64Histogram
		name        string
		description string
	}{
		{&m.HTTPRequestDuration, "http_request_duration_seconds", "HTTP request duration in seconds"},
		{&m.StageDuration, "report_stage_duration_seconds", "Duration of each pipeline stage in seconds"},
	}
	for _, h := range histograms {
		histogram, err := meter.Float64Histogram(h.name, metric.WithDescription(h.description), metric.WithUnit("s"))
		if err != nil {
			return nil, fmt.Errorf("histogram %s: %w", h.name, err)
		}
		*h.dst = histogram
	}

	return m, nil
}

// NoopPipelineMetrics returns instruments that record nothing, for tests and
// runs with metrics disabled
func NoopPipelineMetrics() *PipelineMetrics {
	m, _ := CreatePipelineMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// Shutdown flushes and stops the tracer and meter providers. Both are
// attempted even when the first fails.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("opentelemetry shutdown: %w", err)
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// instanceID is the host name plus a process-unique suffix
func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return host + "-" + uuid.NewString()[:8]
}

// TraceIDFromContext returns the active span's trace id, or "" without one
func TraceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// recordingSpan returns the span in ctx if it is being recorded
func recordingSpan(ctx context.Context) (trace.Span, bool) {
	span := trace.SpanFromContext(ctx)
	return span, span.IsRecording()
}

// AddSpanEvent adds a named event to the active span
func AddSpanEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	if span, ok := recordingSpan(ctx); ok {
		span.AddEvent(name, trace.WithAttributes(toAttributes(attributes)...))
	}
}

// RecordError records err on the active span and marks the span failed
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	if span, ok := recordingSpan(ctx); ok && err != nil {
		span.RecordError(err, options...)
		span.SetStatus(codes.Error, err.Error())
	}
}

func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	if span, ok := recordingSpan(ctx); ok {
		span.SetAttributes(toAttributes(attributes)...)
	}
}

// toAttributes keeps native types and formats anything else with %v
func toAttributes(attributes map[string]interface{}) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		var kv attribute.KeyValue
		switch val := v.(type) {
		case string:
			kv = attribute.String(k, val)
		case bool:
			kv = attribute.Bool(k, val)
		case int:
			kv = attribute.Int(k, val)
		case int64:
			kv = attribute.Int64(k, val)
		case float64:
			kv = attribute.Float64(k, val)
		case []string:
			kv = attribute.StringSlice(k, val)
		default:
			kv = attribute.String(k, fmt.Sprint(val))
		}
		attrs = append(attrs, kv)
	}
	return attrs
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordStage records the duration and outcome of one pipeline stage
func RecordStage(ctx context.Context, metrics *PipelineMetrics, stage string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", outcome(err)),
	))
	AddSpanEvent(ctx, "stage.completed", map[string]interface{}{
		"stage":            stage,
		"success":          err == nil,
		"duration_seconds": duration.Seconds(),
	})
}

// RecordSkippedAnalysis counts an analysis that degenerate input prevented
func RecordSkippedAnalysis(ctx context.Context, metrics *PipelineMetrics, kind, reason string) {
	if metrics == nil {
		return
	}
	metrics.AnalysesSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("reason", reason),
	))
}

// RecordReportRun counts a finished pipeline run by outcome
func RecordReportRun(ctx context.Context, metrics *PipelineMetrics, err error) {
	if metrics == nil {
		return
	}
	metrics.ReportRunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", outcome(err))))
}
