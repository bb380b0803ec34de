package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"bacicli/pkg/contracts/domain"
)

// CategoryMerge folds every product whose description contains Pattern,
// compared case-insensitively, into the synthetic category Label
type CategoryMerge struct {
	Pattern string
	Label   string
}

// NormalizeStats reports what decoding could not resolve. Unmatched codes are
// not errors: the affected rows carry an empty name.
type NormalizeStats struct {
	InputRows          int            `json:"input_rows"`
	OutputRows         int            `json:"output_rows"`
	UnmatchedExporters int            `json:"unmatched_exporter_rows"`
	UnmatchedImporters int            `json:"unmatched_importer_rows"`
	UnmatchedProducts  int            `json:"unmatched_product_rows"`
	UnmatchedCountries []int          `json:"unmatched_country_codes,omitempty"`
	UnmatchedCodes     []string       `json:"unmatched_product_codes,omitempty"`
	MergedRows         int            `json:"merged_rows"`
	MergedByLabel      map[string]int `json:"merged_by_label,omitempty"`
}

// Normalizer decodes raw BACI rows into named, aggregated trade records
type Normalizer struct {
	logger *slog.Logger
	merges []CategoryMerge
}

// NewNormalizer creates a normalizer applying merges in order; the first
// matching rule wins
func NewNormalizer(logger *slog.Logger, merges []CategoryMerge) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}

	lowered := make([]CategoryMerge, 0, len(merges))
	for _, m := range merges {
		if strings.TrimSpace(m.Pattern) == "" {
			continue
		}
		lowered = append(lowered, CategoryMerge{Pattern: strings.ToLower(m.Pattern), Label: m.Label})
	}

	return &Normalizer{
		logger: logger.With("component", "normalizer"),
		merges: lowered,
	}
}

// Normalize decodes codes to names, truncates product descriptions at the
// first colon, applies the category merges and re-aggregates by
// (year, exporter, importer, product).
func (n *Normalizer) Normalize(ctx context.Context, rows []domain.RawTradeRow, countries map[int]string, products map[string]string) ([]domain.TradeRecord, NormalizeStats) {
	stats := NormalizeStats{
		InputRows:     len(rows),
		MergedByLabel: make(map[string]int),
	}
	missingCountries := make(map[int]struct{})
	missingProducts := make(map[string]struct{})

	records := make([]domain.TradeRecord, 0, len(rows))
	for _, row := range rows {
		exporter, ok := countries[row.ExporterCode]
		if !ok {
			stats.UnmatchedExporters++
			missingCountries[row.ExporterCode] = struct{}{}
		}
		importer, ok := countries[row.ImporterCode]
		if !ok {
			stats.UnmatchedImporters++
			missingCountries[row.ImporterCode] = struct{}{}
		}
		description, ok := products[row.ProductCode]
		if !ok {
			stats.UnmatchedProducts++
			missingProducts[row.ProductCode] = struct{}{}
		}

		product := TruncateDescription(description)
		if label, merged := n.mergeLabel(product); merged {
			product = label
			stats.MergedRows++
			stats.MergedByLabel[label]++
		}

		records = append(records, domain.TradeRecord{
			Year:     row.Year,
			Exporter: exporter,
			Importer: importer,
			Product:  product,
			Value:    row.Value,
			Quantity: row.Quantity,
		})
	}

	out := Aggregate(records)
	stats.OutputRows = len(out)
	stats.UnmatchedCountries = sortedInts(missingCountries)
	stats.UnmatchedCodes = sortedStrings(missingProducts)

	if len(missingCountries) > 0 || len(missingProducts) > 0 {
		n.logger.WarnContext(ctx, "codes without a code table entry",
			slog.Int("exporter_rows", stats.UnmatchedExporters),
			slog.Int("importer_rows", stats.UnmatchedImporters),
			slog.Int("product_rows", stats.UnmatchedProducts),
			slog.Any("country_codes", stats.UnmatchedCountries),
			slog.Int("product_codes", len(stats.UnmatchedCodes)))
	}

	n.logger.InfoContext(ctx, "normalized trade records",
		slog.Int("input_rows", stats.InputRows),
		slog.Int("output_rows", stats.OutputRows),
		slog.Int("merged_rows", stats.MergedRows))

	return out, stats
}

func (n *Normalizer) mergeLabel(product string) (string, bool) {
	if product == "" {
		return "", false
	}
	lower := strings.ToLower(product)
	for _, m := range n.merges {
		if strings.Contains(lower, m.Pattern) {
			return m.Label, true
		}
	}
	return "", false
}

// TruncateDescription keeps the text before the first colon
func TruncateDescription(description string) string {
	if i := strings.IndexByte(description, ':'); i >= 0 {
		description = description[:i]
	}
	return strings.TrimSpace(description)
}

// Aggregate sums records sharing (year, exporter, importer, product) and
// returns them sorted by that key. Quantities ignore missing values; a group
// with no reported quantity stays missing. Aggregate is idempotent.
func Aggregate(records []domain.TradeRecord) []domain.TradeRecord {
	index := make(map[domain.TradeKey]int, len(records))
	out := make([]domain.TradeRecord, 0, len(records))

	for _, r := range records {
		key := r.Key()
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, r)
			continue
		}
		out[i].Value += r.Value
		out[i].Quantity = addQuantity(out[i].Quantity, r.Quantity)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})

	return out
}

func addQuantity(a, b float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	default:
		return a + b
	}
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
