package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bacicli/internal/shared/testutil"
	"bacicli/pkg/contracts/domain"
)

const focusUK = "United Kingdom"

func sampleRecords() []domain.TradeRecord {
	return []domain.TradeRecord{
		testutil.Record(2019, focusUK, "France", "Vehicles", 100),
		testutil.Record(2019, focusUK, "Germany", "Vehicles", 50),
		testutil.Record(2019, focusUK, "Germany", "Horses", 5),
		testutil.Record(2020, focusUK, "France", "Vehicles", 120),
		testutil.Record(2020, focusUK, "", "Vehicles", 999),
		testutil.Record(2020, "France", focusUK, "Medicaments", 30),
		testutil.Record(2020, "Germany", focusUK, "Medicaments", 20),
		testutil.Record(2020, "France", "Germany", "Vehicles", 7),
	}
}

func TestSlice(t *testing.T) {
	views := Slice(sampleRecords(), focusUK)

	assert.Equal(t, focusUK, views.Focus)
	require.Len(t, views.Exports, 5)
	require.Len(t, views.Imports, 2)
	for _, r := range views.Exports {
		assert.Equal(t, focusUK, r.Exporter)
	}
	for _, r := range views.Imports {
		assert.Equal(t, focusUK, r.Importer)
	}

	assert.Equal(t, views.Exports, ViewFor(views, domain.KindExportProduct))
	assert.Equal(t, views.Imports, ViewFor(views, domain.KindImportPartner))

	empty := Slice(sampleRecords(), "Atlantis")
	assert.Empty(t, empty.Exports)
	assert.Empty(t, empty.Imports)
}

func TestCounterpart(t *testing.T) {
	assert.Equal(t, "France", Counterpart(testutil.Record(2020, focusUK, "France", "x", 1), focusUK))
	assert.Equal(t, "Germany", Counterpart(testutil.Record(2020, "Germany", focusUK, "x", 1), focusUK))
	assert.Equal(t, "", Counterpart(testutil.Record(2020, "France", "Germany", "x", 1), focusUK))
}

func TestSeriesForKind(t *testing.T) {
	views := Slice(sampleRecords(), focusUK)

	partners := SeriesForKind(views, domain.KindExportPartner)
	assert.Equal(t, domain.DimensionPartner, partners.Dimension)
	assert.Equal(t, []string{"France", "Germany"}, partners.Entities(), "unnamed partners are left out")
	v, ok := partners.Value("Germany", 2019)
	assert.True(t, ok)
	assert.Equal(t, 55.0, v)
	_, ok = partners.Value("Germany", 2020)
	assert.False(t, ok)

	products := SeriesForKind(views, domain.KindExportProduct)
	assert.Equal(t, []string{"Horses", "Vehicles"}, products.Entities())
	assert.Equal(t, 1269.0, products.Total("Vehicles"), "product series keep unnamed partners")

	imports := SeriesForKind(views, domain.KindImportPartner)
	assert.Equal(t, []int{2020}, imports.Years())
	assert.Equal(t, 30.0, imports.Total("France"))
}

func TestProductSeriesForPartner(t *testing.T) {
	series := ProductSeriesForPartner(sampleRecords(), "Germany", focusUK)
	assert.Equal(t, []string{"Horses", "Medicaments", "Vehicles"}, series.Entities())
	assert.Equal(t, 50.0, series.Total("Vehicles"), "flows not involving the focus country are ignored")
}

func TestTopN(t *testing.T) {
	series := domain.NewAggregatedSeries(domain.DimensionPartner)
	series.Add("A", 2020, 10)
	series.Add("B", 2020, 30)
	series.Add("C", 2020, 20)
	series.Add("C", 2021, 10)
	series.Add("D", 2020, 5)

	top := TopN(series, 2)
	require.Len(t, top, 2)
	assert.Equal(t, domain.RankedEntity{Entity: "B", Total: 30, Rank: 1}, top[0])
	assert.Equal(t, domain.RankedEntity{Entity: "C", Total: 30, Rank: 2}, top[1], "ties break by name")

	assert.Len(t, TopN(series, 10), 4, "fewer entities than n returns them all")
	assert.Empty(t, TopN(series, 0))
	assert.Equal(t, []string{"B", "C", "A", "D"}, EntityNames(Rank(series)))
}

func TestRank_SumsInYearOrder(t *testing.T) {
	// 2^53 + 1 rounds back to 2^53, so only the year order 2000, 2001, 2002
	// gives A a total of exactly zero
	const big = float64(1 << 53)
	series := domain.NewAggregatedSeries(domain.DimensionPartner)
	series.Add("A", 2000, big)
	series.Add("A", 2001, 1)
	series.Add("A", 2002, -big)
	series.Add("B", 2001, 0.5)

	for range 50 {
		ranked := Rank(series)
		require.Len(t, ranked, 2)
		assert.Equal(t, domain.RankedEntity{Entity: "B", Total: 0.5, Rank: 1}, ranked[0])
		assert.Equal(t, domain.RankedEntity{Entity: "A", Total: 0, Rank: 2}, ranked[1])
	}
}

func TestSharesAndTotals(t *testing.T) {
	series := domain.NewAggregatedSeries(domain.DimensionProduct)
	series.Add("Vehicles", 2020, 75)
	series.Add("Horses", 2020, 25)
	series.Add("Horses", 2019, 10)

	shares := Shares(series, 2020)
	require.Len(t, shares, 2)
	assert.Equal(t, "Vehicles", shares[0].Entity)
	assert.InDelta(t, 0.75, shares[0].Share, 1e-12)
	assert.InDelta(t, 0.25, shares[1].Share, 1e-12)
	assert.Empty(t, Shares(series, 2000))

	year, ok := LatestYear(series)
	assert.True(t, ok)
	assert.Equal(t, 2020, year)
	_, ok = LatestYear(domain.NewAggregatedSeries(domain.DimensionProduct))
	assert.False(t, ok)

	totals := TotalsByYear(sampleRecords())
	require.Len(t, totals, 2)
	assert.Equal(t, YearTotal{Year: 2019, Value: 155}, totals[0])
	assert.Equal(t, 2020, totals[1].Year)
}
