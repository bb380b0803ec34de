package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"bacicli/pkg/contracts/domain"
)

func seriesFrom(years []int, rows map[string][]float64) *domain.AggregatedSeries {
	s := domain.NewAggregatedSeries(domain.DimensionPartner)
	for entity, values := range rows {
		for j, v := range values {
			s.Add(entity, years[j], v)
		}
	}
	return s
}

func TestNewWideMatrix(t *testing.T) {
	s := domain.NewAggregatedSeries(domain.DimensionProduct)
	s.Add("Vehicles", 2020, 10)
	s.Add("Vehicles", 2018, 5)
	s.Add("Horses", 2019, 3)
	s.Add("Horses", 2019, 4)
	s.Add("Medicaments", 2021, 1)

	m := NewWideMatrix(s, []string{"Vehicles", "Horses"})
	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 4, cols, "columns span every year of the series")
	assert.Equal(t, []int{2018, 2019, 2020, 2021}, m.Years())
	assert.Equal(t, []string{"Vehicles", "Horses"}, m.Entities())

	assert.Equal(t, []float64{5, 0, 10, 0}, m.Row(0))
	assert.Equal(t, []float64{0, 7, 0, 0}, m.Row(1))
	assert.Equal(t, []float64{0, 7}, m.Column(1))
	assert.Equal(t, []float64{15, 7}, m.RowSums())

	all := NewWideMatrix(s, nil)
	assert.Equal(t, []string{"Horses", "Medicaments", "Vehicles"}, all.Entities())

	empty := NewWideMatrix(domain.NewAggregatedSeries(domain.DimensionProduct), nil)
	rows, cols = empty.Dims()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.Nil(t, empty.Dense())
	assert.Empty(t, empty.RowSums())
	assert.Nil(t, empty.Row(0))
	assert.True(t, math.IsNaN(empty.At(0, 0)), "an empty matrix has no cells")
}

func TestStandardizeColumns(t *testing.T) {
	m := NewWideMatrixFromRows(
		[]string{"a", "b", "c"},
		[]int{2019, 2020, 2021},
		[][]float64{
			{1, 7, 10},
			{2, 7, 20},
			{3, 7, 60},
		})

	std := StandardizeColumns(m)
	require.NotNil(t, std.Data)

	assert.InDeltaSlice(t, []float64{-1, 0, 1}, mat.Col(nil, 0, std.Data), 1e-12)
	assert.Equal(t, []float64{0, 0, 0}, mat.Col(nil, 1, std.Data), "constant column is zeroed")
	assert.Equal(t, []int{1}, std.DegenerateColumns)
	assert.Equal(t, []int{2020}, std.DegenerateYears(m))

	// sample standard deviation, n-1 denominator
	assert.InDelta(t, 30.0, std.Means[2], 1e-12)
	assert.InDelta(t, math.Sqrt(700), std.StdDevs[2], 1e-9)

	col := mat.Col(nil, 2, std.Data)
	var sum float64
	for _, v := range col {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestStandardizeColumns_SingleEntity(t *testing.T) {
	m := NewWideMatrixFromRows([]string{"only"}, []int{2020, 2021}, [][]float64{{4, 9}})

	std := StandardizeColumns(m)
	assert.Equal(t, []int{0, 1}, std.DegenerateColumns)
	assert.Equal(t, []float64{0, 0}, mat.Row(nil, 0, std.Data))
	for _, v := range mat.Row(nil, 0, std.Data) {
		assert.False(t, math.IsNaN(v))
	}
}

func TestPairwiseCorrelation(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"inverse", []float64{1, 2, 3}, []float64{3, 2, 1}, -1},
		{"skips missing years", []float64{1, nan, 2, 3}, []float64{10, 99, 20, 30}, 1},
		{"missing on the other side", []float64{1, 2, 3, 4}, []float64{1, 2, 3, nan}, 1},
		{"too few overlapping", []float64{1, nan, 3}, []float64{nan, 2, nan}, nan},
		{"constant", []float64{5, 5, 5}, []float64{1, 2, 3}, nan},
		{"constant on overlap", []float64{5, 5, 9}, []float64{1, 2, nan}, nan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PairwiseCorrelation(tt.x, tt.y)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got), "got %v", got)
				return
			}
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.InDelta(t, got, PairwiseCorrelation(tt.y, tt.x), 1e-15, "symmetric")
		})
	}
}

func TestCorrelationMatrix(t *testing.T) {
	m := NewWideMatrixFromRows(
		[]string{"A", "B", "C"},
		[]int{2018, 2019, 2020},
		[][]float64{{10, 20, 30}, {12, 22, 29}, {5, 5, 5}})

	corr := CorrelationMatrix(m)
	require.NotNil(t, corr)
	assert.Equal(t, 3, corr.SymmetricDim())

	assert.Equal(t, 1.0, corr.At(0, 0))
	assert.True(t, math.IsNaN(corr.At(2, 2)), "constant row has no defined self correlation")
	assert.InDelta(t, 170/math.Sqrt(200*146), corr.At(0, 1), 1e-12)
	assert.Equal(t, corr.At(0, 1), corr.At(1, 0))
	assert.True(t, math.IsNaN(corr.At(0, 2)))

	assert.Nil(t, CorrelationMatrix(NewWideMatrixFromRows(nil, nil, nil)))
}

func TestBuildCorrelationGraph_Example(t *testing.T) {
	m := NewWideMatrixFromRows(
		[]string{"A", "B", "C"},
		[]int{2018, 2019, 2020},
		[][]float64{{10, 20, 30}, {12, 22, 29}, {5, 5, 5}})

	g, err := BuildCorrelationGraph(m, []int{1, 1, 2}, DefaultCorrelationThreshold)
	require.NoError(t, err)

	assert.Len(t, g.Nodes(), 3)
	assert.Equal(t, 1, g.EdgeCount())
	assert.True(t, g.HasEdge("A", "B"))
	assert.True(t, g.HasEdge("B", "A"), "undirected")
	assert.False(t, g.HasEdge("A", "C"))
	assert.False(t, g.HasEdge("B", "C"))
	assert.False(t, g.HasEdge("A", "A"))
	assert.Empty(t, g.Neighbors("C"))
	assert.Equal(t, []string{"B"}, g.Neighbors("A"))

	assert.Equal(t, []domain.GraphEdge{{From: "A", To: "B"}}, g.Edges())

	view := g.View(domain.KindExportPartner)
	assert.Equal(t, domain.KindExportPartner, view.Kind)
	assert.Equal(t, 0.8, view.Threshold)
	require.Len(t, view.Nodes, 3)
	assert.Equal(t, domain.GraphNode{ID: 2, Entity: "C", Cluster: 2, TotalValue: 15}, view.Nodes[2])
	assert.Equal(t, 60.0, view.Nodes[0].TotalValue)

	out, err := g.MarshalDOT("export_partner")
	require.NoError(t, err)
	assert.Contains(t, string(out), "A -- B")
	assert.Contains(t, string(out), "cluster=2")
	assert.NotContains(t, string(out), "A -- C")
}

func TestBuildCorrelationGraph_ThresholdIsStrict(t *testing.T) {
	a := []float64{1, 2, 3, 5}
	b := []float64{2, 3, 3, 6}
	r := PairwiseCorrelation(a, b)
	require.False(t, math.IsNaN(r))

	m := NewWideMatrixFromRows([]string{"a", "b"}, []int{1, 2, 3, 4}, [][]float64{a, b})

	at, err := BuildCorrelationGraph(m, nil, r)
	require.NoError(t, err)
	assert.Zero(t, at.EdgeCount(), "correlation equal to the threshold is not an edge")

	below, err := BuildCorrelationGraph(m, nil, r-1e-9)
	require.NoError(t, err)
	assert.Equal(t, 1, below.EdgeCount())

	_, err = BuildCorrelationGraph(m, []int{1}, r)
	assert.Error(t, err, "one label per entity")
}

func clusteredRows() *WideMatrix {
	return NewWideMatrixFromRows(
		[]string{"a1", "a2", "b1", "b2", "c1", "c2", "d1", "d2"},
		[]int{2019, 2020},
		[][]float64{
			{0, 0}, {0.1, 0.1},
			{10, 0}, {10.1, 0.2},
			{0, 10}, {0.2, 10.1},
			{10, 10}, {10.1, 10.1},
		})
}

func TestKMeans_SeparatedGroups(t *testing.T) {
	m := clusteredRows()
	opts := DefaultOptions()
	opts.Restarts = 50

	km, err := KMeans(m.Dense(), opts)
	require.NoError(t, err)

	require.Len(t, km.Labels, 8)
	for i := 0; i < 8; i += 2 {
		assert.Equal(t, km.Labels[i], km.Labels[i+1], "pair %d shares a cluster", i/2)
	}
	seen := map[int]bool{}
	for i := 0; i < 8; i += 2 {
		seen[km.Labels[i]] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4}, km.Labels, "labels follow first appearance")
	assert.Equal(t, []int{2, 2, 2, 2}, km.Sizes())
	assert.True(t, km.Converged)
	assert.Less(t, km.WithinSS, 1.0)
}

func TestKMeans_Deterministic(t *testing.T) {
	m := NewWideMatrixFromRows(
		[]string{"a", "b", "c", "d", "e", "f", "g"},
		[]int{1, 2, 3},
		[][]float64{
			{1, 5, 2}, {2, 4, 1}, {9, 1, 3}, {4, 4, 4},
			{7, 2, 8}, {3, 9, 5}, {6, 6, 1},
		})
	std := StandardizeColumns(m)

	first, err := KMeans(std.Data, DefaultOptions())
	require.NoError(t, err)

	for run := 0; run < 5; run++ {
		again, err := KMeans(std.Data, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, first.Labels, again.Labels)
		assert.Equal(t, first.WithinSS, again.WithinSS)
	}

	for _, l := range first.Labels {
		assert.GreaterOrEqual(t, l, 1)
		assert.LessOrEqual(t, l, DefaultK)
	}
}

func TestKMeans_DegenerateInput(t *testing.T) {
	three := NewWideMatrixFromRows([]string{"a", "b", "c"}, []int{1}, [][]float64{{1}, {2}, {3}})
	_, err := KMeans(three.Dense(), DefaultOptions())
	assert.ErrorIs(t, err, ErrInsufficientEntities)

	same := NewWideMatrixFromRows(
		[]string{"a", "b", "c", "d", "e"}, []int{1, 2},
		[][]float64{{1, 1}, {1, 1}, {1, 1}, {2, 2}, {2, 2}})
	_, err = KMeans(same.Dense(), DefaultOptions())
	assert.ErrorIs(t, err, ErrInsufficientEntities)
	assert.Contains(t, err.Error(), "2 distinct")

	opts := DefaultOptions()
	opts.K = 0
	_, err = KMeans(same.Dense(), opts)
	assert.ErrorIs(t, err, ErrInvalidClusterCount)

	bad := NewWideMatrixFromRows(
		[]string{"a", "b", "c", "d"}, []int{1},
		[][]float64{{1}, {math.NaN()}, {3}, {4}})
	_, err = KMeans(bad.Dense(), DefaultOptions())
	assert.ErrorIs(t, err, ErrNonFiniteInput)
}

func TestKMeans_SingleCluster(t *testing.T) {
	opts := DefaultOptions()
	opts.K = 1

	km, err := KMeans(clusteredRows().Dense(), opts)
	require.NoError(t, err)
	for _, l := range km.Labels {
		assert.Equal(t, 1, l)
	}
}

func TestUpdateCenters_ReseedsEmptyCluster(t *testing.T) {
	points := [][]float64{{0}, {1}, {10}}
	centers := [][]float64{{0}, {100}}
	labels := []int{0, 0, 0}

	reseeded := updateCenters(points, centers, labels)
	assert.True(t, reseeded)
	assert.InDelta(t, 11.0/3, centers[0][0], 1e-12)
	assert.Equal(t, []float64{10}, centers[1], "farthest point from its centre")

	labels = []int{0, 0, 1}
	assert.False(t, updateCenters(points, centers, labels))
	assert.Equal(t, []float64{0.5}, centers[0])
}

func TestClusterAndGraph(t *testing.T) {
	years := []int{2018, 2019, 2020, 2021}
	series := seriesFrom(years, map[string][]float64{
		"France":  {100, 200, 300, 400},
		"Germany": {110, 210, 290, 410},
		"USA":     {400, 300, 200, 100},
		"China":   {390, 310, 190, 120},
		"Norway":  {50, 50, 50, 50},
		"Spain":   {10, 80, 20, 90},
	})
	order := []string{"USA", "China", "France", "Germany", "Spain", "Norway"}

	res, err := ClusterAndGraph(series, order, DefaultOptions(), DefaultCorrelationThreshold)
	require.NoError(t, err)

	require.Len(t, res.Assignments, 6)
	assert.Equal(t, "USA", res.Assignments[0].Entity, "assignments follow the given order")
	assert.Equal(t, 1000.0, res.Assignments[0].TotalValue)
	for _, a := range res.Assignments {
		assert.GreaterOrEqual(t, a.Cluster, 1)
		assert.LessOrEqual(t, a.Cluster, 4)
	}
	assert.Empty(t, res.DegenerateYears)

	assert.True(t, res.Graph.HasEdge("France", "Germany"))
	assert.True(t, res.Graph.HasEdge("USA", "China"))
	assert.False(t, res.Graph.HasEdge("France", "USA"))
	assert.Empty(t, res.Graph.Neighbors("Norway"), "constant series has no edges")
	for i, n := range res.Graph.Nodes() {
		assert.Equal(t, res.Assignments[i].Cluster, n.Cluster)
	}

	again, err := ClusterAndGraph(series, order, DefaultOptions(), DefaultCorrelationThreshold)
	require.NoError(t, err)
	assert.Equal(t, res.Assignments, again.Assignments)
}

func TestClusterAndGraph_TooFewEntities(t *testing.T) {
	series := seriesFrom([]int{2020, 2021}, map[string][]float64{
		"A": {1, 2}, "B": {2, 1}, "C": {3, 3},
	})

	_, err := ClusterAndGraph(series, nil, DefaultOptions(), DefaultCorrelationThreshold)
	assert.ErrorIs(t, err, ErrInsufficientEntities)

	_, err = ClusterAndGraph(domain.NewAggregatedSeries(domain.DimensionPartner), nil, DefaultOptions(), 0.8)
	assert.ErrorIs(t, err, ErrInsufficientEntities)
}
