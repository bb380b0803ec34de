package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"

	"bacicli/internal/analytics"
	"bacicli/internal/charts"
	"bacicli/internal/config"
	"bacicli/internal/dataprocessing"
	apperrors "bacicli/internal/errors"
	"bacicli/internal/exporter"
	"bacicli/internal/files"
	"bacicli/internal/infrastructure"
	"bacicli/pkg/contracts/domain"
)

// TracerName names the report pipeline tracer
const TracerName = "bacicli.report"

// Pipeline stages, in execution order
const (
	StageLoad      = "load"
	StageNormalize = "normalize"
	StageSlice     = "slice"
	StageAnalyze   = "analyze"
	StageRender    = "render"
	StageExport    = "export"
)

// ReportService runs the report pipeline and keeps the last completed report
// for the HTTP API. At most one run is in progress at a time.
type ReportService struct {
	analysis config.AnalysisConfig
	patterns config.PathsConfig
	paths    *config.Paths
	timeout  time.Duration

	files    *files.Manager
	exporter *exporter.Exporter
	renderer *charts.Renderer
	metrics  *infrastructure.PipelineMetrics
	tracer   trace.Tracer
	logger   *slog.Logger

	running    atomic.Bool
	background sync.WaitGroup
	mu         sync.RWMutex
	last       *Report
	cancelRun  context.CancelFunc
}

// NewReportService creates a report service from the application config.
// metrics may be nil.
func NewReportService(cfg *config.Config, paths *config.Paths, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NoopPipelineMetrics()
	}
	logger = infrastructure.WithComponent(logger, "report_service")

	manager := files.NewManager(paths)
	s := &ReportService{
		analysis: cfg.Analysis,
		patterns: cfg.Paths,
		paths:    paths,
		timeout:  config.DefaultReportTimeout,
		files:    manager,
		exporter: exporter.New(manager, logger),
		renderer: charts.NewRenderer(manager, logger),
		metrics:  metrics,
		tracer:   otel.Tracer(TracerName),
		logger:   logger,
	}

	logger.Info("ReportService initialized",
		slog.String("input_dir", paths.InputDir),
		slog.String("output_dir", paths.OutputDir),
		slog.String("focus_country", cfg.Analysis.FocusCountry),
		slog.Int("file_limit", cfg.Analysis.FileLimit),
		slog.Int("clusters", cfg.Analysis.Clusters),
		slog.Int64("seed", cfg.Analysis.Seed))

	return s
}

// WithRenderer replaces the chart renderer, e.g. to draw smaller charts
func (s *ReportService) WithRenderer(r *charts.Renderer) *ReportService {
	s.renderer = r
	return s
}

// WithTimeout bounds every run; zero disables the bound
func (s *ReportService) WithTimeout(d time.Duration) *ReportService {
	s.timeout = d
	return s
}

// Latest returns the last completed report
func (s *ReportService) Latest() (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, ErrReportNotReady
	}
	return s.last, nil
}

// Running reports whether a run is in progress
func (s *ReportService) Running() bool {
	return s.running.Load()
}

// clusterOptions maps the analysis config onto k-means options
func (s *ReportService) clusterOptions() analytics.Options {
	return analytics.Options{
		K:             s.analysis.Clusters,
		Seed:          s.analysis.Seed,
		MaxIterations: s.analysis.MaxIterations,
		Restarts:      s.analysis.Restarts,
	}
}

// Run executes load, normalize, slice, analyze, render and export. A kind
// whose clustering hits degenerate input is recorded as skipped and the run
// continues; any other failure aborts the run.
func (s *ReportService) Run(ctx context.Context) (*Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrReportRunning
	}
	defer s.running.Store(false)
	return s.run(ctx)
}

// Start runs the pipeline in the background and returns once the run is
// claimed. The run keeps ctx's values but not its cancellation; Shutdown
// cancels it.
func (s *ReportService) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrReportRunning
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	s.cancelRun = cancel
	s.mu.Unlock()

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer s.running.Store(false)
		defer cancel()
		// failures are logged and traced by run
		_, _ = s.run(runCtx)
	}()
	return nil
}

// Shutdown cancels a background run and waits for it to return
func (s *ReportService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReportService) run(ctx context.Context) (*Report, error) {
	if s.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
	}

	report := newReport(uuid.New().String(), s.analysis.FocusCountry)
	ctx, span := s.tracer.Start(ctx, "report.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("report.id", report.ID),
			attribute.String("report.focus", report.FocusCountry),
			attribute.Int("report.file_limit", s.analysis.FileLimit),
		))
	defer span.End()
	ctx = infrastructure.ContextWithSpanTrace(ctx)

	logger := s.logger.With(slog.String("report_id", report.ID))
	logger.InfoContext(ctx, "report run started")

	err := s.execute(ctx, report, logger)
	report.FinishedAt = time.Now()
	infrastructure.RecordReportRun(ctx, s.metrics, err)

	if err != nil {
		report.Status = ReportStatusFailed
		report.Error = err.Error()
		infrastructure.RecordError(ctx, err, trace.WithAttributes(attribute.String("report.id", report.ID)))
		infrastructure.WithError(logger, err).ErrorContext(ctx, "report run failed",
			slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))
		return report, err
	}

	report.Status = ReportStatusCompleted
	span.SetStatus(codes.Ok, "report completed")
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"report.skipped":   len(report.Skipped),
		"report.artifacts": len(report.Artifacts),
	})
	logger.InfoContext(ctx, "report run completed",
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("artifacts", len(report.Artifacts)),
		slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()
	return report, nil
}

func (s *ReportService) execute(ctx context.Context, report *Report, logger *slog.Logger) error {
	if err := s.paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("failed to create output directories", err)
	}

	var (
		dataset *dataprocessing.Dataset
		records []domain.TradeRecord
		views   domain.TradeViews
		set     *analysisSet
	)

	stages := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{StageLoad, func(ctx context.Context) error {
			var err error
			dataset, err = s.load(ctx, report, logger)
			return err
		}},
		{StageNormalize, func(ctx context.Context) error {
			records = s.normalize(ctx, report, dataset, logger)
			dataset = nil
			return nil
		}},
		{StageSlice, func(ctx context.Context) error {
			views = dataprocessing.Slice(records, s.analysis.FocusCountry)
			report.Views = ViewCounts{ExportRows: len(views.Exports), ImportRows: len(views.Imports)}
			if len(views.Exports) == 0 && len(views.Imports) == 0 {
				logger.WarnContext(ctx, "focus country has no trade flows",
					slog.String("focus_country", s.analysis.FocusCountry))
			}
			return nil
		}},
		{StageAnalyze, func(ctx context.Context) error {
			var err error
			set, err = s.analyze(ctx, report, views, logger)
			return err
		}},
		{StageRender, func(ctx context.Context) error {
			return s.render(ctx, report, set, logger)
		}},
		{StageExport, func(ctx context.Context) error {
			return s.export(ctx, report, set, logger)
		}},
	}

	for _, st := range stages {
		if err := s.runStage(ctx, report, st.name, st.run, logger); err != nil {
			return err
		}
	}
	return nil
}

// runStage wraps one stage in a span, times it and records the outcome
func (s *ReportService) runStage(ctx context.Context, report *Report, name string, fn func(context.Context) error, logger *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		logger.WarnContext(ctx, "report run cancelled", slog.String("stage", name))
		return err
	}

	ctx, span := s.tracer.Start(ctx, "report.stage."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("report.id", report.ID),
			attribute.String("stage.name", name),
		))
	defer span.End()
	ctx = infrastructure.WithStage(ctx, name)

	logger.InfoContext(ctx, "executing stage")
	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	infrastructure.RecordStage(ctx, s.metrics, name, duration, err)
	report.Stages = append(report.Stages, StageTiming{Stage: name, Seconds: duration.Seconds(), Failed: err != nil})

	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "stage failed",
			slog.Duration("duration", duration))
		return err
	}

	span.SetStatus(codes.Ok, "stage completed")
	logger.InfoContext(ctx, "stage completed", slog.Duration("duration", duration))
	return nil
}

func (s *ReportService) load(ctx context.Context, report *Report, logger *slog.Logger) (*dataprocessing.Dataset, error) {
	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{
		InputDir:            s.paths.InputDir,
		TradeFilePattern:    s.patterns.TradeFilePattern,
		CountryCodesPattern: s.patterns.CountryCodesPattern,
		ProductCodesPattern: s.patterns.ProductCodesPattern,
		FileLimit:           s.analysis.FileLimit,
		Workers:             s.analysis.Workers,
	})

	dataset, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(dataset.TradeFiles))
	for i, f := range dataset.TradeFiles {
		names[i] = f.Name
	}
	report.Inputs = InputSummary{
		TradeFiles:   names,
		CountryTable: dataset.CountryTable,
		ProductTable: dataset.ProductTable,
		RawRows:      len(dataset.Rows),
		Bytes:        files.TotalSize(dataset.TradeFiles),
	}

	s.metrics.RecordsLoadedTotal.Add(ctx, int64(len(dataset.Rows)))
	return dataset, nil
}

func (s *ReportService) normalize(ctx context.Context, report *Report, dataset *dataprocessing.Dataset, logger *slog.Logger) []domain.TradeRecord {
	merges := make([]dataprocessing.CategoryMerge, len(s.analysis.CategoryMerges))
	for i, m := range s.analysis.CategoryMerges {
		merges[i] = dataprocessing.CategoryMerge{Pattern: m.Pattern, Label: m.Label}
	}

	records, stats := dataprocessing.NewNormalizer(logger, merges).Normalize(ctx, dataset.Rows, dataset.Countries, dataset.Products)
	report.Normalize = stats

	s.metrics.RowsMergedTotal.Add(ctx, int64(stats.MergedRows))
	s.metrics.UnmatchedCodesTotal.Add(ctx, int64(len(stats.UnmatchedCountries)),
		metric.WithAttributes(attribute.String("table", "country")))
	s.metrics.UnmatchedCodesTotal.Add(ctx, int64(len(stats.UnmatchedCodes)),
		metric.WithAttributes(attribute.String("table", "product")))
	return records
}

// kindAnalysis holds everything computed for one entity kind
type kindAnalysis struct {
	kind    domain.EntityKind
	ranking []domain.RankedEntity
	matrix  *analytics.WideMatrix
	corr    *mat.SymDense
	cluster *analytics.ClusterResult
	skipped *SkippedAnalysis
}

// productShares is a latest-year share breakdown for a treemap
type productShares struct {
	kind   domain.EntityKind
	year   int
	shares []dataprocessing.EntityShare
}

// analysisSet carries the analyze stage output to rendering and export
type analysisSet struct {
	views        domain.TradeViews
	kinds        []*kindAnalysis
	shares       []productShares
	topPartner   string
	partnerMix   *analytics.WideMatrix
	partnerRanks []domain.RankedEntity
}

func (s *ReportService) analyze(ctx context.Context, report *Report, views domain.TradeViews, logger *slog.Logger) (*analysisSet, error) {
	report.ExportTotals = dataprocessing.TotalsByYear(views.Exports)
	report.ImportTotals = dataprocessing.TotalsByYear(views.Imports)

	kinds := domain.AllKinds()
	set := &analysisSet{views: views, kinds: make([]*kindAnalysis, len(kinds))}

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			ka, err := s.analyzeKind(gctx, views, kind, logger)
			if err != nil {
				return err
			}
			set.kinds[i] = ka
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := s.clusterOptions()
	for _, ka := range set.kinds {
		report.series[ka.kind] = newSeriesView(ka.kind, ka.ranking, ka.matrix)
		if ka.skipped != nil {
			report.Skipped = append(report.Skipped, *ka.skipped)
			continue
		}
		report.clusters[ka.kind] = newClusterView(ka.kind, opts, ka.cluster)
		report.graphs[ka.kind] = ka.cluster.Graph.View(ka.kind)
	}

	for _, kind := range []domain.EntityKind{domain.KindExportProduct, domain.KindImportProduct} {
		series := dataprocessing.SeriesForKind(views, kind)
		year, ok := dataprocessing.LatestYear(series)
		if !ok {
			continue
		}
		shares := dataprocessing.Shares(series, year)
		set.shares = append(set.shares, productShares{kind: kind, year: year, shares: shares[:min(s.analysis.TopN, len(shares))]})
	}

	if ranked := dataprocessing.TopN(dataprocessing.SeriesForKind(views, domain.KindExportPartner), 1); len(ranked) == 1 {
		set.topPartner = ranked[0].Entity
		mix := dataprocessing.ProductSeriesForPartner(views.Exports, set.topPartner, views.Focus)
		set.partnerRanks = dataprocessing.TopN(mix, s.analysis.TopN)
		set.partnerMix = analytics.NewWideMatrix(mix, dataprocessing.EntityNames(set.partnerRanks))
	}

	return set, nil
}

// analyzeKind ranks the kind's entities, correlates the top N and clusters
// them. Degenerate clustering input is not an error; it marks the kind skipped.
func (s *ReportService) analyzeKind(ctx context.Context, views domain.TradeViews, kind domain.EntityKind, logger *slog.Logger) (*kindAnalysis, error) {
	series := dataprocessing.SeriesForKind(views, kind)
	ranking := dataprocessing.TopN(series, s.analysis.TopN)
	entities := dataprocessing.EntityNames(ranking)

	ka := &kindAnalysis{
		kind:    kind,
		ranking: ranking,
		matrix:  analytics.NewWideMatrix(series, entities),
	}
	ka.corr = analytics.CorrelationMatrix(ka.matrix)

	res, err := analytics.ClusterAndGraph(series, entities, s.clusterOptions(), s.analysis.CorrelationThreshold)
	switch {
	case err == nil:
		ka.cluster = res
	case isDegenerate(err):
		ka.skipped = &SkippedAnalysis{Kind: kind, Stage: StageAnalyze, Reason: err.Error()}
		infrastructure.RecordSkippedAnalysis(ctx, s.metrics, string(kind), skipReason(err))
		infrastructure.AddSpanEvent(ctx, "analysis.skipped", map[string]interface{}{
			"kind":   string(kind),
			"reason": skipReason(err),
		})
		logger.WarnContext(ctx, "cluster analysis skipped",
			slog.String("kind", string(kind)),
			slog.Int("entities", len(entities)),
			slog.String("reason", err.Error()))
		return ka, nil
	default:
		return nil, apperrors.NewAnalysisError(fmt.Sprintf("cluster analysis of %s failed", kind), err)
	}

	if len(res.DegenerateYears) > 0 {
		logger.WarnContext(ctx, "years without spread were zeroed before clustering",
			slog.String("kind", string(kind)),
			slog.Any("years", res.DegenerateYears))
	}
	infrastructure.AddSpanEvent(ctx, "graph.built", map[string]interface{}{
		"kind":  string(kind),
		"nodes": len(res.Graph.Nodes()),
		"edges": res.Graph.EdgeCount(),
	})
	logger.InfoContext(ctx, "clustered entities",
		slog.String("kind", string(kind)),
		slog.Int("entities", len(entities)),
		slog.Any("sizes", res.KMeans.Sizes()),
		slog.Int("edges", res.Graph.EdgeCount()),
		slog.Int("iterations", res.KMeans.Iterations))
	return ka, nil
}

func isDegenerate(err error) bool {
	return errors.Is(err, analytics.ErrInsufficientEntities) ||
		errors.Is(err, analytics.ErrInvalidClusterCount) ||
		errors.Is(err, analytics.ErrNonFiniteInput)
}

// skipReason is a low-cardinality metric label for a degenerate input error
func skipReason(err error) string {
	switch {
	case errors.Is(err, analytics.ErrInsufficientEntities):
		return "insufficient_entities"
	case errors.Is(err, analytics.ErrInvalidClusterCount):
		return "invalid_cluster_count"
	default:
		return "non_finite_input"
	}
}

// kindTitle turns export_partner into "export partners"
func kindTitle(kind domain.EntityKind) string {
	return strings.ReplaceAll(string(kind), "_", " ") + "s"
}

func (s *ReportService) render(ctx context.Context, report *Report, set *analysisSet, logger *slog.Logger) error {
	focus := report.FocusCountry
	save := func(name string, build func() (*plot.Plot, error)) error {
		p, err := build()
		if err != nil {
			logger.WarnContext(ctx, "chart not drawn",
				slog.String("chart", name),
				slog.String("reason", err.Error()))
			return nil
		}
		path, err := s.renderer.Save(name, p)
		if err != nil {
			return apperrors.NewRenderError("failed to save chart "+name, err)
		}
		report.Artifacts = append(report.Artifacts, path)
		return nil
	}

	for _, ka := range set.kinds {
		title := fmt.Sprintf("%s: top %d %s", focus, len(ka.ranking), kindTitle(ka.kind))
		if err := save(string(ka.kind)+"_top", func() (*plot.Plot, error) {
			return charts.StackedArea(title, ka.matrix)
		}); err != nil {
			return err
		}
		if err := save(string(ka.kind)+"_correlation", func() (*plot.Plot, error) {
			return charts.HeatMap(title+" correlation", ka.matrix.Entities(), ka.corr)
		}); err != nil {
			return err
		}
		if ka.cluster == nil {
			continue
		}
		if err := save(string(ka.kind)+"_clusters", func() (*plot.Plot, error) {
			return charts.ClusterGraph(title+" clusters", ka.cluster.Graph)
		}); err != nil {
			return err
		}
	}

	for _, ps := range set.shares {
		title := fmt.Sprintf("%s %s, %d", focus, kindTitle(ps.kind), ps.year)
		if err := save(fmt.Sprintf("%s_treemap_%d", ps.kind, ps.year), func() (*plot.Plot, error) {
			return charts.Treemap(title, ps.shares)
		}); err != nil {
			return err
		}
	}

	if set.partnerMix != nil {
		title := fmt.Sprintf("%s exports to %s: top products", focus, set.topPartner)
		if err := save("export_products_to_"+set.topPartner, func() (*plot.Plot, error) {
			return charts.StackedArea(title, set.partnerMix)
		}); err != nil {
			return err
		}
	}

	s.metrics.ArtifactsWritten.Add(ctx, int64(len(report.Artifacts)), metric.WithAttributes(attribute.String("stage", StageRender)))
	return nil
}

func (s *ReportService) export(ctx context.Context, report *Report, set *analysisSet, logger *slog.Logger) error {
	before := len(report.Artifacts)

	tables := []exporter.Table{
		exporter.YearTotalsTable("year_totals", report.ExportTotals, report.ImportTotals),
	}
	for _, ka := range set.kinds {
		name := string(ka.kind)
		tables = append(tables,
			exporter.RankingTable(name+"_ranking", ka.ranking),
			exporter.SeriesTable(name+"_series", ka.matrix),
			exporter.CorrelationTable(name+"_correlation", ka.matrix.Entities(), ka.corr),
		)
		if ka.cluster != nil {
			tables = append(tables,
				exporter.AssignmentsTable(name+"_clusters", ka.cluster.Assignments),
				exporter.EdgesTable(name+"_edges", ka.cluster.Graph, ka.cluster.Matrix),
			)
		}
	}
	for _, ps := range set.shares {
		tables = append(tables, exporter.SharesTable(fmt.Sprintf("%s_shares_%d", ps.kind, ps.year), ps.year, ps.shares))
	}
	if set.partnerMix != nil {
		tables = append(tables, exporter.SeriesTable("export_products_to_"+set.topPartner, set.partnerMix))
	}

	// Record-level views can exceed a worksheet's row limit, so they are CSV only
	records := []exporter.Table{
		exporter.RecordsTable("exports", set.views.Exports),
		exporter.RecordsTable("imports", set.views.Imports),
	}

	written, err := s.exporter.WriteTables(append(tables, records...))
	report.Artifacts = append(report.Artifacts, written...)
	if err != nil {
		return apperrors.NewStorageError("failed to write tables", err)
	}

	if err := s.exporter.WriteWorkbook(config.WorkbookFileName, tables); err != nil {
		return apperrors.NewStorageError("failed to write workbook", err)
	}
	report.Artifacts = append(report.Artifacts, config.WorkbookFileName)

	for _, ka := range set.kinds {
		if ka.cluster == nil {
			continue
		}
		path, err := s.exporter.WriteGraph(string(ka.kind), ka.cluster.Graph)
		if err != nil {
			return apperrors.NewStorageError("failed to write graph", err)
		}
		report.Artifacts = append(report.Artifacts, path)
	}

	report.Artifacts = append(report.Artifacts, config.SummaryFileName)
	s.metrics.ArtifactsWritten.Add(ctx, int64(len(report.Artifacts)-before), metric.WithAttributes(attribute.String("stage", StageExport)))

	// The summary is written last so that it lists every other artifact
	summary := *report
	summary.FinishedAt = time.Now()
	summary.Status = ReportStatusCompleted
	if err := s.exporter.WriteJSON(config.SummaryFileName, &summary); err != nil {
		return apperrors.NewStorageError("failed to write report summary", err)
	}

	s.pruneStale(ctx, report.Artifacts, logger)

	logger.InfoContext(ctx, "report outputs written",
		slog.Int("tables", len(tables)+len(records)),
		slog.String("workbook", s.paths.WorkbookFile),
		slog.String("summary", s.paths.SummaryFile))
	return nil
}

// pruneStale removes charts, tables and graphs left by earlier runs that this
// run did not produce, such as the graph of a kind that is now skipped.
// Failures are logged; the report itself is complete at this point.
func (s *ReportService) pruneStale(ctx context.Context, artifacts []string, logger *slog.Logger) {
	for _, dir := range []string{"charts/", "tables/", "graphs/"} {
		removed, err := s.files.Prune(dir, artifacts)
		if err != nil {
			logger.WarnContext(ctx, "failed to prune stale artifacts",
				slog.String("dir", dir),
				slog.String("error", err.Error()))
			continue
		}
		if len(removed) > 0 {
			logger.InfoContext(ctx, "pruned stale artifacts",
				slog.String("dir", dir),
				slog.Any("files", removed))
		}
	}
}
