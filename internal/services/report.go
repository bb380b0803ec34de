package services

import (
	"fmt"
	"time"

	"bacicli/internal/analytics"
	"bacicli/internal/dataprocessing"
	"bacicli/pkg/contracts/domain"
)

// ReportStatus is the outcome of a report run
type ReportStatus string

const (
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// InputSummary describes what the loader read
type InputSummary struct {
	TradeFiles   []string `json:"trade_files"`
	CountryTable string   `json:"country_table"`
	ProductTable string   `json:"product_table"`
	RawRows      int      `json:"raw_rows"`
	Bytes        int64    `json:"bytes"`
}

// ViewCounts is the size of the focus country's slices
type ViewCounts struct {
	ExportRows int `json:"export_rows"`
	ImportRows int `json:"import_rows"`
}

// SeriesView is the top-N wide matrix of one entity kind
type SeriesView struct {
	Kind     domain.EntityKind     `json:"kind"`
	Years    []int                 `json:"years"`
	Entities []string              `json:"entities"`
	Values   [][]float64           `json:"values"`
	Ranking  []domain.RankedEntity `json:"ranking"`
}

// ClusterView is the k-means outcome of one entity kind
type ClusterView struct {
	Kind            domain.EntityKind          `json:"kind"`
	K               int                        `json:"k"`
	Seed            int64                      `json:"seed"`
	Iterations      int                        `json:"iterations"`
	Converged       bool                       `json:"converged"`
	WithinSS        float64                    `json:"within_ss"`
	Sizes           []int                      `json:"sizes"`
	Assignments     []domain.ClusterAssignment `json:"assignments"`
	DegenerateYears []int                      `json:"degenerate_years,omitempty"`
}

// SkippedAnalysis records an analysis that degenerate input prevented
type SkippedAnalysis struct {
	Kind   domain.EntityKind `json:"kind"`
	Stage  string            `json:"stage"`
	Reason string            `json:"reason"`
}

// StageTiming is the wall time of one pipeline stage
type StageTiming struct {
	Stage   string  `json:"stage"`
	Seconds float64 `json:"seconds"`
	Failed  bool    `json:"failed,omitempty"`
}

// Report is the result of one pipeline run. It is immutable once Run has
// returned it.
type Report struct {
	ID           string                        `json:"id"`
	Status       ReportStatus                  `json:"status"`
	Error        string                        `json:"error,omitempty"`
	StartedAt    time.Time                     `json:"started_at"`
	FinishedAt   time.Time                     `json:"finished_at"`
	FocusCountry string                        `json:"focus_country"`
	Inputs       InputSummary                  `json:"inputs"`
	Normalize    dataprocessing.NormalizeStats `json:"normalize"`
	Views        ViewCounts                    `json:"views"`
	ExportTotals []dataprocessing.YearTotal    `json:"export_totals"`
	ImportTotals []dataprocessing.YearTotal    `json:"import_totals"`
	Skipped      []SkippedAnalysis             `json:"skipped,omitempty"`
	Stages       []StageTiming                 `json:"stages"`
	Artifacts    []string                      `json:"artifacts"`

	series   map[domain.EntityKind]*SeriesView
	clusters map[domain.EntityKind]*ClusterView
	graphs   map[domain.EntityKind]domain.CorrelationGraphView
}

func newReport(id, focus string) *Report {
	return &Report{
		ID:           id,
		StartedAt:    time.Now(),
		FocusCountry: focus,
		series:       make(map[domain.EntityKind]*SeriesView),
		clusters:     make(map[domain.EntityKind]*ClusterView),
		graphs:       make(map[domain.EntityKind]domain.CorrelationGraphView),
	}
}

// Series returns the top-N series of a kind
func (r *Report) Series(kind domain.EntityKind) (*SeriesView, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	v, ok := r.series[kind]
	if !ok {
		return nil, r.skipError(kind)
	}
	return v, nil
}

// Clusters returns the cluster assignments of a kind
func (r *Report) Clusters(kind domain.EntityKind) (*ClusterView, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	v, ok := r.clusters[kind]
	if !ok {
		return nil, r.skipError(kind)
	}
	return v, nil
}

// Graph returns the correlation graph of a kind
func (r *Report) Graph(kind domain.EntityKind) (domain.CorrelationGraphView, error) {
	if !kind.IsValid() {
		return domain.CorrelationGraphView{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	v, ok := r.graphs[kind]
	if !ok {
		return domain.CorrelationGraphView{}, r.skipError(kind)
	}
	return v, nil
}

// SkipReason returns why the analysis of kind was skipped, if it was
func (r *Report) SkipReason(kind domain.EntityKind) (string, bool) {
	for _, s := range r.Skipped {
		if s.Kind == kind {
			return s.Reason, true
		}
	}
	return "", false
}

func (r *Report) skipError(kind domain.EntityKind) error {
	if reason, ok := r.SkipReason(kind); ok {
		return fmt.Errorf("%w: %s: %s", ErrAnalysisSkipped, kind, reason)
	}
	return fmt.Errorf("%w: %s", ErrAnalysisSkipped, kind)
}

func newSeriesView(kind domain.EntityKind, ranking []domain.RankedEntity, m *analytics.WideMatrix) *SeriesView {
	return &SeriesView{
		Kind:     kind,
		Years:    m.Years(),
		Entities: m.Entities(),
		Values:   m.Rows(),
		Ranking:  ranking,
	}
}

func newClusterView(kind domain.EntityKind, opts analytics.Options, res *analytics.ClusterResult) *ClusterView {
	return &ClusterView{
		Kind:            kind,
		K:               opts.K,
		Seed:            opts.Seed,
		Iterations:      res.KMeans.Iterations,
		Converged:       res.KMeans.Converged,
		WithinSS:        res.KMeans.WithinSS,
		Sizes:           res.KMeans.Sizes(),
		Assignments:     res.Assignments,
		DegenerateYears: res.DegenerateYears,
	}
}
