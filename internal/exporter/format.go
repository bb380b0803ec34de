package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal
// places. Missing values (NaN) become an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

// formatRatio keeps enough precision for correlations and z-scores
func formatRatio(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// formatCell renders one table cell as CSV text
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return formatFloat(c)
	case Ratio:
		return formatRatio(float64(c))
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}

// workbookCell converts a table cell to a value excelize stores natively.
// Missing numbers are left blank.
func workbookCell(v any) any {
	switch c := v.(type) {
	case float64:
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil
		}
		return c
	case Ratio:
		return workbookCell(float64(c))
	default:
		return v
	}
}
