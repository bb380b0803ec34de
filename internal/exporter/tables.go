package exporter

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"bacicli/internal/analytics"
	"bacicli/internal/dataprocessing"
	"bacicli/pkg/contracts/domain"
)

// Ratio marks a cell that needs more than two decimals (correlations,
// z-scores, shares)
type Ratio float64

// Table is a named grid shared by the CSV and workbook outputs
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// RecordsTable lists normalized trade records
func RecordsTable(name string, records []domain.TradeRecord) Table {
	t := Table{
		Name:    name,
		Headers: []string{"year", "exporter", "importer", "product", "value", "quantity"},
		Rows:    make([][]any, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []any{r.Year, r.Exporter, r.Importer, r.Product, r.Value, r.Quantity})
	}
	return t
}

// YearTotalsTable lists export and import totals side by side
func YearTotalsTable(name string, exports, imports []dataprocessing.YearTotal) Table {
	byYear := make(map[int][2]float64)
	var years []int
	add := func(totals []dataprocessing.YearTotal, side int) {
		for _, yt := range totals {
			v, ok := byYear[yt.Year]
			if !ok {
				years = append(years, yt.Year)
			}
			v[side] = yt.Value
			byYear[yt.Year] = v
		}
	}
	add(exports, 0)
	add(imports, 1)
	sort.Ints(years)

	t := Table{Name: name, Headers: []string{"year", "exports", "imports", "balance"}}
	for _, y := range years {
		v := byYear[y]
		t.Rows = append(t.Rows, []any{y, v[0], v[1], v[0] - v[1]})
	}
	return t
}

// RankingTable lists ranked entities
func RankingTable(name string, ranked []domain.RankedEntity) Table {
	t := Table{Name: name, Headers: []string{"rank", "entity", "total"}}
	for _, r := range ranked {
		t.Rows = append(t.Rows, []any{r.Rank, r.Entity, r.Total})
	}
	return t
}

// SeriesTable renders a wide matrix: one row per entity, one column per year
func SeriesTable(name string, m *analytics.WideMatrix) Table {
	t := Table{Name: name, Headers: []string{"entity"}}
	for _, y := range m.Years() {
		t.Headers = append(t.Headers, strconv.Itoa(y))
	}
	t.Headers = append(t.Headers, "total")

	sums := m.RowSums()
	for i, entity := range m.Entities() {
		row := []any{entity}
		for _, v := range m.Row(i) {
			row = append(row, v)
		}
		t.Rows = append(t.Rows, append(row, sums[i]))
	}
	return t
}

// SharesTable lists the entity shares of one year
func SharesTable(name string, year int, shares []dataprocessing.EntityShare) Table {
	t := Table{Name: name, Headers: []string{"year", "entity", "value", "share"}}
	for _, s := range shares {
		t.Rows = append(t.Rows, []any{year, s.Entity, s.Value, Ratio(s.Share)})
	}
	return t
}

// CorrelationTable renders an entity x entity correlation matrix. Undefined
// correlations are blank.
func CorrelationTable(name string, entities []string, corr *mat.SymDense) Table {
	t := Table{Name: name, Headers: append([]string{"entity"}, entities...)}
	if corr == nil {
		return t
	}
	for i, entity := range entities {
		row := []any{entity}
		for j := range entities {
			row = append(row, Ratio(corr.At(i, j)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// AssignmentsTable lists cluster labels with each entity's total
func AssignmentsTable(name string, assignments []domain.ClusterAssignment) Table {
	t := Table{Name: name, Headers: []string{"entity", "cluster", "total_value"}}
	for _, a := range assignments {
		t.Rows = append(t.Rows, []any{a.Entity, a.Cluster, a.TotalValue})
	}
	return t
}

// EdgesTable lists the edges of a correlation graph with their correlation
func EdgesTable(name string, g *analytics.CorrelationGraph, m *analytics.WideMatrix) Table {
	t := Table{Name: name, Headers: []string{"from", "to", "correlation"}}

	rows := make(map[string][]float64, len(m.Entities()))
	for i, e := range m.Entities() {
		rows[e] = m.Row(i)
	}
	for _, e := range g.Edges() {
		t.Rows = append(t.Rows, []any{e.From, e.To, Ratio(analytics.PairwiseCorrelation(rows[e.From], rows[e.To]))})
	}
	return t
}
