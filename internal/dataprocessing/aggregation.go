package dataprocessing

import (
	"sort"

	"bacicli/pkg/contracts/domain"
)

// YearTotal is the summed trade value of one year
type YearTotal struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// EntityShare is an entity's part of one year's total
type EntityShare struct {
	Entity string  `json:"entity"`
	Value  float64 `json:"value"`
	Share  float64 `json:"share"`
}

// TotalsByYear sums record values per year, ascending by year
func TotalsByYear(records []domain.TradeRecord) []YearTotal {
	sums := make(map[int]float64)
	for _, r := range records {
		sums[r.Year] += r.Value
	}

	out := make([]YearTotal, 0, len(sums))
	for year, v := range sums {
		out = append(out, YearTotal{Year: year, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// SeriesBy aggregates records by (entity, year). For DimensionPartner the
// entity is the counterpart of focus; for DimensionProduct it is the product.
// Records whose entity name is missing are left out.
func SeriesBy(records []domain.TradeRecord, dim domain.Dimension, focus string) *domain.AggregatedSeries {
	series := domain.NewAggregatedSeries(dim)
	for _, r := range records {
		var entity string
		if dim == domain.DimensionProduct {
			entity = r.Product
		} else {
			entity = Counterpart(r, focus)
		}
		if entity == "" {
			continue
		}
		series.Add(entity, r.Year, r.Value)
	}
	return series
}

// SeriesForKind builds the series of one entity kind from the sliced views
func SeriesForKind(views domain.TradeViews, kind domain.EntityKind) *domain.AggregatedSeries {
	return SeriesBy(ViewFor(views, kind), kind.Dimension(), views.Focus)
}

// ProductSeriesForPartner is the product series of the flows with one partner
func ProductSeriesForPartner(records []domain.TradeRecord, partner, focus string) *domain.AggregatedSeries {
	var filtered []domain.TradeRecord
	for _, r := range records {
		if Counterpart(r, focus) == partner {
			filtered = append(filtered, r)
		}
	}
	return SeriesBy(filtered, domain.DimensionProduct, focus)
}

// Rank orders every entity by total value, descending, ties by name
func Rank(series *domain.AggregatedSeries) []domain.RankedEntity {
	totals := series.EntityTotals()

	ranked := make([]domain.RankedEntity, 0, len(totals))
	for entity, total := range totals {
		ranked = append(ranked, domain.RankedEntity{Entity: entity, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Entity < ranked[j].Entity
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// TopN returns the n highest-valued entities. The filter is local to the
// series it is computed on.
func TopN(series *domain.AggregatedSeries, n int) []domain.RankedEntity {
	ranked := Rank(series)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// EntityNames extracts the names of ranked entities, keeping rank order
func EntityNames(ranked []domain.RankedEntity) []string {
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Entity
	}
	return names
}

// Shares returns each entity's share of the year's total, largest first.
// Entities with no value in that year are omitted.
func Shares(series *domain.AggregatedSeries, year int) []EntityShare {
	var out []EntityShare
	for _, entity := range series.Entities() {
		if v, ok := series.Value(entity, year); ok {
			out = append(out, EntityShare{Entity: entity, Value: v})
		}
	}

	// entity order keeps the float total reproducible
	var total float64
	for _, s := range out {
		total += s.Value
	}
	for i := range out {
		if total != 0 {
			out[i].Share = out[i].Value / total
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Entity < out[j].Entity
	})
	return out
}

// LatestYear returns the most recent year in the series
func LatestYear(series *domain.AggregatedSeries) (int, bool) {
	years := series.Years()
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}
