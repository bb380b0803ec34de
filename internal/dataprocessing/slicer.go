package dataprocessing

import (
	"bacicli/pkg/contracts/domain"
)

// Slice splits records into the flows the focus country exports and the
// flows it imports. Input order is preserved in both views.
func Slice(records []domain.TradeRecord, focus string) domain.TradeViews {
	views := domain.TradeViews{Focus: focus}
	for _, r := range records {
		if r.Exporter == focus {
			views.Exports = append(views.Exports, r)
		}
		if r.Importer == focus {
			views.Imports = append(views.Imports, r)
		}
	}
	return views
}

// ViewFor returns the export or import view an entity kind is computed over
func ViewFor(views domain.TradeViews, kind domain.EntityKind) []domain.TradeRecord {
	if kind.IsExport() {
		return views.Exports
	}
	return views.Imports
}

// Counterpart returns the trading partner of focus on a record, or "" when
// focus is on neither side
func Counterpart(r domain.TradeRecord, focus string) string {
	switch focus {
	case r.Exporter:
		return r.Importer
	case r.Importer:
		return r.Exporter
	default:
		return ""
	}
}
