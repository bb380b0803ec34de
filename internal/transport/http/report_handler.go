package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bacicli/internal/config"
	apierrors "bacicli/internal/errors"
	"bacicli/internal/exporter"
	mw "bacicli/internal/middleware"
	"bacicli/internal/services"
	"bacicli/pkg/contracts/domain"
)

// ReportRunner is the part of the report service the API uses
type ReportRunner interface {
	Latest() (*services.Report, error)
	Running() bool
	Run(ctx context.Context) (*services.Report, error)
	Start(ctx context.Context) error
}

type kindKey struct{}

// kindParam is the validated {kind} path parameter
type kindParam struct {
	Kind string `json:"kind" validate:"required,entity_kind"`
}

// ReportSummary is the body of GET /api/report
type ReportSummary struct {
	*services.Report
	Running bool `json:"running"`
}

// RunAccepted is the body of an asynchronous POST /api/report/run
type RunAccepted struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
}

// ReportHandler serves the latest report over HTTP
type ReportHandler struct {
	reports      ReportRunner
	outputDir    string
	maxTop       int
	validator    *mw.Validator
	errorHandler *apierrors.ErrorHandler
	tracer       trace.Tracer
	logger       *slog.Logger
}

// NewReportHandler creates a report handler. Artifacts are served from
// paths.OutputDir; maxTop bounds the series ?limit parameter.
func NewReportHandler(reports ReportRunner, paths *config.Paths, maxTop int, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		reports:      reports,
		outputDir:    paths.OutputDir,
		maxTop:       maxTop,
		validator:    mw.NewValidator(logger),
		errorHandler: errorHandler,
		tracer:       otel.Tracer("bacicli.http"),
		logger:       logger.With(slog.String("component", "report_handler")),
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetSummary)
	r.Post("/run", h.RunReport)

	r.With(h.KindCtx).Get("/series/{kind}", h.GetSeries)
	r.With(h.KindCtx).Get("/clusters/{kind}", h.GetClusters)
	r.With(h.KindCtx).Get("/graphs/{kind}", h.GetGraph)

	r.Get("/artifacts/*", h.GetArtifact)

	return r
}

// KindCtx validates the {kind} parameter and stores it in the context
func (h *ReportHandler) KindCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		param := kindParam{Kind: chi.URLParam(r, "kind")}
		if err := h.validator.ValidateStruct(param); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), kindKey{}, domain.EntityKind(param.Kind))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func kindFromContext(ctx context.Context) domain.EntityKind {
	kind, _ := ctx.Value(kindKey{}).(domain.EntityKind)
	return kind
}

// latest fetches the last report or writes the problem response
func (h *ReportHandler) latest(w http.ResponseWriter, r *http.Request) (*services.Report, bool) {
	report, err := h.reports.Latest()
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(nil, "", err))
		return nil, false
	}
	return report, true
}

// mapError turns service errors into API errors
func (h *ReportHandler) mapError(report *services.Report, kind domain.EntityKind, err error) error {
	switch {
	case errors.Is(err, services.ErrReportNotReady):
		return apierrors.ErrReportNotReady
	case errors.Is(err, services.ErrReportRunning):
		return apierrors.ErrReportRunning
	case errors.Is(err, services.ErrUnknownKind):
		return apierrors.ErrValidation("kind", err.Error())
	case errors.Is(err, services.ErrAnalysisSkipped):
		reason := err.Error()
		if report != nil {
			if r, ok := report.SkipReason(kind); ok {
				reason = r
			}
		}
		return apierrors.AnalysisSkippedError(string(kind), reason)
	default:
		return err
	}
}

// GetSummary handles GET /api/report
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, ReportSummary{Report: report, Running: h.reports.Running()})
}

// RunReport handles POST /api/report/run. By default the run is started in
// the background and 202 is returned; ?wait=true runs it within the request.
func (h *ReportHandler) RunReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	wait, err := mw.QueryBool(r, "wait", false)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "report.run.request",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("request_id", reqID),
			attribute.Bool("wait", wait),
		))
	defer span.End()

	h.logger.InfoContext(ctx, "report run requested",
		slog.String("request_id", reqID),
		slog.Bool("wait", wait))

	if !wait {
		if err := h.reports.Start(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			h.errorHandler.HandleError(w, r, h.mapError(nil, "", err))
			return
		}
		span.SetStatus(codes.Ok, "run started")
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, RunAccepted{Status: "accepted", Running: true})
		return
	}

	report, err := h.reports.Run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var appErr *apierrors.AppError
		mapped := err
		switch {
		case errors.Is(err, services.ErrReportRunning):
			mapped = apierrors.ErrReportRunning
		case errors.As(err, &appErr), ctx.Err() != nil:
			// typed and context errors already map to a problem type
		default:
			mapped = apierrors.ErrReportExecution(err)
		}
		h.errorHandler.HandleError(w, r, mapped)
		return
	}

	span.SetStatus(codes.Ok, "run completed")
	render.JSON(w, r, ReportSummary{Report: report, Running: h.reports.Running()})
}

// GetSeries handles GET /api/report/series/{kind}?limit=N
func (h *ReportHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	kind := kindFromContext(r.Context())
	report, ok := h.latest(w, r)
	if !ok {
		return
	}

	series, err := report.Series(kind)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(report, kind, err))
		return
	}

	limit, err := mw.QueryInt(r, "limit", 1, h.maxTop, len(series.Entities))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, limitSeries(series, limit))
}

// limitSeries keeps the limit highest ranked entities of a series
func limitSeries(series *services.SeriesView, limit int) *services.SeriesView {
	if limit >= len(series.Entities) || limit >= len(series.Ranking) {
		return series
	}

	keep := make(map[string]bool, limit)
	for _, e := range series.Ranking[:limit] {
		keep[e.Entity] = true
	}

	out := &services.SeriesView{
		Kind:    series.Kind,
		Years:   series.Years,
		Ranking: series.Ranking[:limit],
	}
	for i, name := range series.Entities {
		if keep[name] {
			out.Entities = append(out.Entities, name)
			out.Values = append(out.Values, series.Values[i])
		}
	}
	return out
}

// GetClusters handles GET /api/report/clusters/{kind}
func (h *ReportHandler) GetClusters(w http.ResponseWriter, r *http.Request) {
	kind := kindFromContext(r.Context())
	report, ok := h.latest(w, r)
	if !ok {
		return
	}

	clusters, err := report.Clusters(kind)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(report, kind, err))
		return
	}
	render.JSON(w, r, clusters)
}

// GetGraph handles GET /api/report/graphs/{kind}. ?format=dot returns the
// Graphviz file written by the exporter.
func (h *ReportHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	kind := kindFromContext(r.Context())
	report, ok := h.latest(w, r)
	if !ok {
		return
	}

	graph, err := report.Graph(kind)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(report, kind, err))
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		render.JSON(w, r, graph)
	case "dot":
		h.serveArtifact(w, r, report, exporter.GraphPath(string(kind)))
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "format must be one of: json, dot"))
	}
}

// GetArtifact handles GET /api/report/artifacts/*. Only files listed in the
// latest report are served.
func (h *ReportHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	report, ok := h.latest(w, r)
	if !ok {
		return
	}
	h.serveArtifact(w, r, report, chi.URLParam(r, "*"))
}

func (h *ReportHandler) serveArtifact(w http.ResponseWriter, r *http.Request, report *services.Report, name string) {
	if !slices.Contains(report.Artifacts, name) {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("artifact "+name))
		return
	}

	h.logger.DebugContext(r.Context(), "serving artifact",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("artifact", name))
	http.ServeFile(w, r, filepath.Join(h.outputDir, filepath.FromSlash(name)))
}
