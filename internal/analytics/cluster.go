package analytics

import (
	"fmt"

	"bacicli/pkg/contracts/domain"
)

// ClusterResult is the outcome of clustering one entity kind
type ClusterResult struct {
	Matrix       *WideMatrix
	Standardized *Standardization
	KMeans       *KMeansResult
	Assignments  []domain.ClusterAssignment
	Graph        *CorrelationGraph
	// DegenerateYears are the year columns that had no spread across
	// entities and were zeroed before clustering
	DegenerateYears []int
}

// ClusterAndGraph pivots series into an entities x years matrix, clusters
// the column-standardized rows and builds the correlation graph over the raw
// rows. entities fixes the row order; nil means every entity of the series.
func ClusterAndGraph(series *domain.AggregatedSeries, entities []string, opts Options, threshold float64) (*ClusterResult, error) {
	m := NewWideMatrix(series, entities)
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: %d entities over %d years", ErrInsufficientEntities, rows, cols)
	}

	std := StandardizeColumns(m)
	km, err := KMeans(std.Data, opts)
	if err != nil {
		return nil, err
	}

	g, err := BuildCorrelationGraph(m, km.Labels, threshold)
	if err != nil {
		return nil, err
	}

	totals := m.RowSums()
	assignments := make([]domain.ClusterAssignment, rows)
	for i, entity := range m.Entities() {
		assignments[i] = domain.ClusterAssignment{
			Entity:     entity,
			Cluster:    km.Labels[i],
			TotalValue: totals[i],
		}
	}

	return &ClusterResult{
		Matrix:          m,
		Standardized:    std,
		KMeans:          km,
		Assignments:     assignments,
		Graph:           g,
		DegenerateYears: std.DegenerateYears(m),
	}, nil
}
