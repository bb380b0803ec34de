package analytics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Standardization is a column-standardized copy of a wide matrix
type Standardization struct {
	Data    *mat.Dense
	Means   []float64
	StdDevs []float64
	// DegenerateColumns lists the columns with no spread across entities.
	// They hold 0 instead of an undefined z-score.
	DegenerateColumns []int
}

// StandardizeColumns centres each year column on its mean across entities and
// divides by the sample standard deviation (n-1 denominator). A column whose
// values are all equal, or that has a single entity, is set to 0 and reported
// in DegenerateColumns.
func StandardizeColumns(m *WideMatrix) *Standardization {
	rows, cols := m.Dims()
	s := &Standardization{
		Means:   make([]float64, cols),
		StdDevs: make([]float64, cols),
	}
	if m.data == nil {
		return s
	}

	s.Data = mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m.data)
		mean, sd := stat.MeanStdDev(col, nil)
		s.Means[j] = mean

		if rows < 2 || isConstant(col) {
			s.DegenerateColumns = append(s.DegenerateColumns, j)
			continue
		}
		s.StdDevs[j] = sd

		for i, v := range col {
			s.Data.Set(i, j, (v-mean)/sd)
		}
	}
	return s
}

// DegenerateYears maps DegenerateColumns back to the years of m
func (s *Standardization) DegenerateYears(m *WideMatrix) []int {
	years := make([]int, 0, len(s.DegenerateColumns))
	for _, j := range s.DegenerateColumns {
		years = append(years, m.years[j])
	}
	return years
}

// isConstant compares exactly so that a column of repeated values never
// yields a tiny rounding-error spread
func isConstant(values []float64) bool {
	if len(values) == 0 {
		return true
	}
	return floats.Max(values) == floats.Min(values)
}
