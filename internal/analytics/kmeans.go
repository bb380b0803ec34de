package analytics

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default clustering parameters
const (
	DefaultK             = 4
	DefaultSeed          = 123
	DefaultMaxIterations = 100
	DefaultRestarts      = 1
)

var (
	// ErrInsufficientEntities means there are fewer entities, or fewer
	// distinct entity profiles, than requested clusters
	ErrInsufficientEntities = errors.New("insufficient entities for clustering")
	// ErrInvalidClusterCount is returned for K < 1
	ErrInvalidClusterCount = errors.New("cluster count must be at least 1")
	// ErrNonFiniteInput is returned when the matrix holds NaN or Inf
	ErrNonFiniteInput = errors.New("matrix contains non-finite values")
)

// Options configures KMeans
type Options struct {
	K             int
	Seed          int64
	MaxIterations int
	Restarts      int
}

// DefaultOptions returns K=4, seed 123, 100 iterations and one start
func DefaultOptions() Options {
	return Options{
		K:             DefaultK,
		Seed:          DefaultSeed,
		MaxIterations: DefaultMaxIterations,
		Restarts:      DefaultRestarts,
	}
}

// KMeansResult holds the assignment of every row
type KMeansResult struct {
	// Labels[i] is the cluster of row i, in 1..K
	Labels     []int
	Centers    *mat.Dense // row c-1 is the centre of cluster c
	WithinSS   float64
	Iterations int
	Converged  bool
}

// Sizes counts the rows in each cluster; index c-1 is cluster c
func (r *KMeansResult) Sizes() []int {
	k, _ := r.Centers.Dims()
	sizes := make([]int, k)
	for _, l := range r.Labels {
		sizes[l-1]++
	}
	return sizes
}

// KMeans partitions the rows of data into opts.K clusters with Lloyd's
// algorithm. Starting centres are K distinct rows drawn with a PRNG seeded by
// opts.Seed, so the same data and seed always give the same labels. With
// several restarts the run with the lowest within-cluster sum of squares is
// kept. Labels are numbered by first appearance in row order.
func KMeans(data mat.Matrix, opts Options) (*KMeansResult, error) {
	if opts.K < 1 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidClusterCount, opts.K)
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Restarts < 1 {
		opts.Restarts = 1
	}

	points := denseRows(data)
	if len(points) < opts.K {
		return nil, fmt.Errorf("%w: %d entities for k=%d", ErrInsufficientEntities, len(points), opts.K)
	}
	for i, p := range points {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d", ErrNonFiniteInput, i)
			}
		}
	}
	if distinct := countDistinct(points); distinct < opts.K {
		return nil, fmt.Errorf("%w: %d distinct entity profiles for k=%d", ErrInsufficientEntities, distinct, opts.K)
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0x9e3779b97f4a7c15))

	var best *kmeansRun
	for r := 0; r < opts.Restarts; r++ {
		run := lloyd(points, forgy(points, opts.K, rng), opts.MaxIterations)
		if best == nil || run.withinSS < best.withinSS {
			best = run
		}
	}

	return best.result(opts.K), nil
}

type kmeansRun struct {
	labels     []int // 0-based centre index
	centers    [][]float64
	withinSS   float64
	iterations int
	converged  bool
}

// forgy picks k rows with distinct values in a random order
func forgy(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	for _, i := range rng.Perm(len(points)) {
		if containsPoint(centers, points[i]) {
			continue
		}
		centers = append(centers, append([]float64(nil), points[i]...))
		if len(centers) == k {
			break
		}
	}
	return centers
}

func lloyd(points, centers [][]float64, maxIter int) *kmeansRun {
	run := &kmeansRun{
		labels:  make([]int, len(points)),
		centers: centers,
	}
	for i := range run.labels {
		run.labels[i] = -1
	}

	for run.iterations < maxIter {
		run.iterations++
		changed := assign(points, run.centers, run.labels)
		reseeded := updateCenters(points, run.centers, run.labels)
		if !changed && !reseeded {
			run.converged = true
			break
		}
	}

	// keep labels consistent with the final centres
	assign(points, run.centers, run.labels)
	for i, p := range points {
		run.withinSS += sqDist(p, run.centers[run.labels[i]])
	}
	return run
}

// assign moves every point to its nearest centre, ties going to the lower
// index, and reports whether any label changed
func assign(points, centers [][]float64, labels []int) bool {
	changed := false
	for i, p := range points {
		nearest, bestDist := 0, math.Inf(1)
		for c, center := range centers {
			if d := sqDist(p, center); d < bestDist {
				nearest, bestDist = c, d
			}
		}
		if labels[i] != nearest {
			labels[i] = nearest
			changed = true
		}
	}
	return changed
}

// updateCenters moves centres to the mean of their points. An empty cluster
// takes the point farthest from its own centre; it reports whether that
// happened.
func updateCenters(points, centers [][]float64, labels []int) bool {
	dims := len(points[0])
	counts := make([]int, len(centers))
	sums := make([][]float64, len(centers))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}

	taken := make(map[int]bool)
	reseeded := false
	for c := range centers {
		if counts[c] > 0 {
			floats.ScaleTo(centers[c], 1/float64(counts[c]), sums[c])
			continue
		}

		far, farDist := -1, -1.0
		for i, p := range points {
			if taken[i] {
				continue
			}
			if d := sqDist(p, centers[labels[i]]); d > farDist {
				far, farDist = i, d
			}
		}
		taken[far] = true
		copy(centers[c], points[far])
		reseeded = true
	}
	return reseeded
}

// result renumbers clusters by first appearance so labels do not depend on
// the order the starting centres were drawn in
func (r *kmeansRun) result(k int) *KMeansResult {
	mapping := make([]int, k)
	next := 1
	labels := make([]int, len(r.labels))
	for i, c := range r.labels {
		if mapping[c] == 0 {
			mapping[c] = next
			next++
		}
		labels[i] = mapping[c]
	}
	// clusters left empty take the remaining labels in centre order
	for c := range mapping {
		if mapping[c] == 0 {
			mapping[c] = next
			next++
		}
	}

	dims := len(r.centers[0])
	centers := mat.NewDense(k, dims, nil)
	for c, center := range r.centers {
		centers.SetRow(mapping[c]-1, center)
	}

	return &KMeansResult{
		Labels:     labels,
		Centers:    centers,
		WithinSS:   r.withinSS,
		Iterations: r.iterations,
		Converged:  r.converged,
	}
}

func denseRows(data mat.Matrix) [][]float64 {
	if data == nil {
		return nil
	}
	rows, _ := data.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = mat.Row(nil, i, data)
	}
	return out
}

func countDistinct(points [][]float64) int {
	var seen [][]float64
	for _, p := range points {
		if !containsPoint(seen, p) {
			seen = append(seen, p)
		}
	}
	return len(seen)
}

func containsPoint(set [][]float64, p []float64) bool {
	for _, q := range set {
		if floats.Equal(q, p) {
			return true
		}
	}
	return false
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
