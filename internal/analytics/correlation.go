package analytics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultCorrelationThreshold is the strict lower bound for a graph edge
const DefaultCorrelationThreshold = 0.8

// PairwiseCorrelation is the Pearson correlation of x and y over the
// positions where both values are finite. It is NaN when fewer than two
// positions overlap or either side is constant on the overlap.
func PairwiseCorrelation(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if isFinite(x[i]) && isFinite(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}

	if len(xs) < 2 || isConstant(xs) || isConstant(ys) {
		return math.NaN()
	}

	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

// CorrelationMatrix correlates every pair of rows of m. The diagonal is 1
// for rows that vary and NaN for constant rows. Returns nil for an empty
// matrix.
func CorrelationMatrix(m *WideMatrix) *mat.SymDense {
	rows, _ := m.Dims()
	if m.data == nil {
		return nil
	}

	series := m.Rows()
	corr := mat.NewSymDense(rows, nil)
	for i := 0; i < rows; i++ {
		if isConstant(series[i]) {
			corr.SetSym(i, i, math.NaN())
		} else {
			corr.SetSym(i, i, 1)
		}
		for j := i + 1; j < rows; j++ {
			corr.SetSym(i, j, PairwiseCorrelation(series[i], series[j]))
		}
	}
	return corr
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
