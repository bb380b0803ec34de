package domain

import "sort"

// Dimension selects which side of a flow an aggregation is keyed by
type Dimension string

const (
	// DimensionPartner keys by the counterpart country of the focus country
	DimensionPartner Dimension = "partner"
	// DimensionProduct keys by product label
	DimensionProduct Dimension = "product"
)

// EntityKind names the four groupings the clustering step runs over
type EntityKind string

const (
	KindExportPartner EntityKind = "export_partner"
	KindImportPartner EntityKind = "import_partner"
	KindExportProduct EntityKind = "export_product"
	KindImportProduct EntityKind = "import_product"
)

// AllKinds lists every entity kind in report order
func AllKinds() []EntityKind {
	return []EntityKind{KindExportPartner, KindImportPartner, KindExportProduct, KindImportProduct}
}

// Dimension returns the aggregation dimension behind the kind
func (k EntityKind) Dimension() Dimension {
	switch k {
	case KindExportProduct, KindImportProduct:
		return DimensionProduct
	default:
		return DimensionPartner
	}
}

// IsExport reports whether the kind is computed over the export view
func (k EntityKind) IsExport() bool {
	return k == KindExportPartner || k == KindExportProduct
}

// IsValid checks the kind against the known set
func (k EntityKind) IsValid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// SeriesKey addresses one cell of an aggregated series
type SeriesKey struct {
	Entity string
	Year   int
}

// AggregatedSeries maps (entity, year) to a summed trade value.
// Each analysis builds its own series; nothing is shared between analyses.
type AggregatedSeries struct {
	Dimension Dimension
	Values    map[SeriesKey]float64
}

// NewAggregatedSeries creates an empty series
func NewAggregatedSeries(dim Dimension) *AggregatedSeries {
	return &AggregatedSeries{Dimension: dim, Values: make(map[SeriesKey]float64)}
}

// Add accumulates value into the (entity, year) cell
func (s *AggregatedSeries) Add(entity string, year int, value float64) {
	s.Values[SeriesKey{Entity: entity, Year: year}] += value
}

// Value returns the cell value and whether the cell exists
func (s *AggregatedSeries) Value(entity string, year int) (float64, bool) {
	v, ok := s.Values[SeriesKey{Entity: entity, Year: year}]
	return v, ok
}

// Entities returns the distinct entities in ascending order
func (s *AggregatedSeries) Entities() []string {
	seen := make(map[string]struct{})
	for k := range s.Values {
		seen[k.Entity] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Years returns the distinct years in ascending order
func (s *AggregatedSeries) Years() []int {
	seen := make(map[int]struct{})
	for k := range s.Values {
		seen[k.Year] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Total sums every year of one entity
func (s *AggregatedSeries) Total(entity string) float64 {
	var total float64
	for _, year := range s.Years() {
		total += s.Values[SeriesKey{Entity: entity, Year: year}]
	}
	return total
}

// EntityTotals sums every entity over its years. Cells are added in
// ascending year order so the result does not depend on map iteration.
func (s *AggregatedSeries) EntityTotals() map[string]float64 {
	years := s.Years()
	totals := make(map[string]float64)
	for _, entity := range s.Entities() {
		var total float64
		for _, year := range years {
			total += s.Values[SeriesKey{Entity: entity, Year: year}]
		}
		totals[entity] = total
	}
	return totals
}

// Filter returns a new series restricted to the given entities
func (s *AggregatedSeries) Filter(entities []string) *AggregatedSeries {
	keep := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		keep[e] = struct{}{}
	}
	out := NewAggregatedSeries(s.Dimension)
	for k, v := range s.Values {
		if _, ok := keep[k.Entity]; ok {
			out.Values[k] = v
		}
	}
	return out
}

// RankedEntity is an entity with its total over all years
type RankedEntity struct {
	Entity string  `json:"entity"`
	Total  float64 `json:"total"`
	Rank   int     `json:"rank"`
}

// ClusterAssignment is the k-means label attached to an entity.
// Labels run 1..K and carry no ordering meaning.
type ClusterAssignment struct {
	Entity     string  `json:"entity"`
	Cluster    int     `json:"cluster"`
	TotalValue float64 `json:"total_value"`
}

// GraphNode is an entity in a correlation graph
type GraphNode struct {
	ID         int64   `json:"id"`
	Entity     string  `json:"entity"`
	Cluster    int     `json:"cluster"`
	TotalValue float64 `json:"total_value"`
}

// GraphEdge is an undirected, unweighted link; From is always the lower node id
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CorrelationGraphView is a serializable snapshot of a correlation graph
type CorrelationGraphView struct {
	Kind      EntityKind  `json:"kind"`
	Threshold float64     `json:"threshold"`
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
}
