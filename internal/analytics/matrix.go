package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"bacicli/pkg/contracts/domain"
)

// WideMatrix is an entities x years table of summed trade values. Rows follow
// the entity order it was built with, columns are ascending years, and
// (entity, year) combinations absent from the series hold 0.
type WideMatrix struct {
	entities []string
	years    []int
	data     *mat.Dense // nil when there are no rows or no columns
}

// NewWideMatrix pivots series into a wide matrix. When entities is nil every
// entity of the series is used in ascending order. Columns are all the years
// present in the series.
func NewWideMatrix(series *domain.AggregatedSeries, entities []string) *WideMatrix {
	if entities == nil {
		entities = series.Entities()
	}
	years := series.Years()

	m := &WideMatrix{
		entities: append([]string(nil), entities...),
		years:    years,
	}
	if len(entities) == 0 || len(years) == 0 {
		return m
	}

	m.data = mat.NewDense(len(entities), len(years), nil)
	for i, entity := range entities {
		for j, year := range years {
			if v, ok := series.Value(entity, year); ok {
				m.data.Set(i, j, v)
			}
		}
	}
	return m
}

// NewWideMatrixFromRows builds a matrix from explicit rows. All rows must
// have len(years) values.
func NewWideMatrixFromRows(entities []string, years []int, rows [][]float64) *WideMatrix {
	m := &WideMatrix{
		entities: append([]string(nil), entities...),
		years:    append([]int(nil), years...),
	}
	if len(entities) == 0 || len(years) == 0 {
		return m
	}

	m.data = mat.NewDense(len(entities), len(years), nil)
	for i := range entities {
		m.data.SetRow(i, rows[i])
	}
	return m
}

// Dims returns the number of entities and years
func (m *WideMatrix) Dims() (int, int) {
	return len(m.entities), len(m.years)
}

// Entities returns the row labels
func (m *WideMatrix) Entities() []string {
	return m.entities
}

// Years returns the column labels
func (m *WideMatrix) Years() []int {
	return m.years
}

// Dense exposes the underlying matrix; nil for an empty matrix
func (m *WideMatrix) Dense() *mat.Dense {
	return m.data
}

// At returns the value of entity i in year column j; NaN for an empty matrix
func (m *WideMatrix) At(i, j int) float64 {
	if m.data == nil {
		return math.NaN()
	}
	return m.data.At(i, j)
}

// Row returns a copy of entity i's values across years
func (m *WideMatrix) Row(i int) []float64 {
	if m.data == nil {
		return nil
	}
	return mat.Row(nil, i, m.data)
}

// Column returns a copy of year column j across entities
func (m *WideMatrix) Column(j int) []float64 {
	if m.data == nil {
		return nil
	}
	return mat.Col(nil, j, m.data)
}

// RowSums returns each entity's total over all years
func (m *WideMatrix) RowSums() []float64 {
	sums := make([]float64, len(m.entities))
	if m.data == nil {
		return sums
	}
	for i := range sums {
		sums[i] = floats.Sum(m.data.RawRowView(i))
	}
	return sums
}

// Rows returns a copy of the matrix as row slices
func (m *WideMatrix) Rows() [][]float64 {
	out := make([][]float64, len(m.entities))
	for i := range out {
		out[i] = m.Row(i)
		if out[i] == nil {
			out[i] = []float64{}
		}
	}
	return out
}
