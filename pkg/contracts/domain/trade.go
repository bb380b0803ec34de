package domain

import "math"

// RawTradeRow is one line of a BACI file before any decoding.
// Columns follow the BACI layout: t, i, j, k, v, q.
type RawTradeRow struct {
	Year         int     `json:"t"`
	ExporterCode int     `json:"i"`
	ImporterCode int     `json:"j"`
	ProductCode  string  `json:"k"`
	Value        float64 `json:"v"` // thousands of current USD
	Quantity     float64 `json:"q"` // metric tons, NaN when not reported
}

// TradeRecord is a normalized bilateral flow. Country and product fields hold
// decoded names; an empty name means the code had no match in the code table.
type TradeRecord struct {
	Year     int     `json:"year"`
	Exporter string  `json:"exporter"`
	Importer string  `json:"importer"`
	Product  string  `json:"product"`
	Value    float64 `json:"value"`
	Quantity float64 `json:"quantity"`
}

// HasQuantity reports whether the quantity was reported for this flow
func (r TradeRecord) HasQuantity() bool {
	return !math.IsNaN(r.Quantity)
}

// TradeKey identifies a row of the aggregated trade table
type TradeKey struct {
	Year     int
	Exporter string
	Importer string
	Product  string
}

// Key returns the aggregation key of the record
func (r TradeRecord) Key() TradeKey {
	return TradeKey{Year: r.Year, Exporter: r.Exporter, Importer: r.Importer, Product: r.Product}
}

// Less orders keys by year, exporter, importer, product
func (k TradeKey) Less(o TradeKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Exporter != o.Exporter {
		return k.Exporter < o.Exporter
	}
	if k.Importer != o.Importer {
		return k.Importer < o.Importer
	}
	return k.Product < o.Product
}

// TradeViews holds the focus country's outgoing and incoming flows
type TradeViews struct {
	Focus   string        `json:"focus"`
	Exports []TradeRecord `json:"-"`
	Imports []TradeRecord `json:"-"`
}
