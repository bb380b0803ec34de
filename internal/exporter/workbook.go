package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on sheet name length
const maxSheetName = 31

// WriteWorkbook writes tables into one workbook, one sheet per table, with a
// bold frozen header row
func (e *Exporter) WriteWorkbook(path string, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	first := f.GetSheetName(0)
	used := make(map[string]bool)
	for i, table := range tables {
		sheet := uniqueSheetName(table.Name, used)
		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, table, header); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	return e.files.WriteWith(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

func writeSheet(f *excelize.File, sheet string, table Table, headerStyle int) error {
	headers := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for r, cells := range table.Rows {
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = workbookCell(c)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if len(table.Headers) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(table.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(table.Headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// uniqueSheetName trims a table name to a valid, unused sheet name
func uniqueSheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		clean = "sheet"
	}
	if len(clean) > maxSheetName {
		clean = clean[:maxSheetName]
	}

	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		base := clean
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = base + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
