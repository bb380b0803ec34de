package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"bacicli/internal/files"
)

// utf8BOM helps Excel recognise UTF-8 input
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes CSV files through the file manager, so every file lands
// under a temporary name first and is renamed into place.
type CSVWriter struct {
	files *files.Manager
}

func NewCSVWriter(manager *files.Manager) *CSVWriter {
	return &CSVWriter{files: manager}
}

// WriteRows writes headers and records in one go. With bom the file starts
// with a UTF-8 byte order mark.
func (w *CSVWriter) WriteRows(filePath string, headers []string, records [][]string, bom bool) error {
	slog.Debug("writing csv", slog.String("file_path", filePath), slog.Int("rows", len(records)))

	return w.Stream(filePath, headers, bom, func(emit func([]string) error) error {
		for i, record := range records {
			if err := emit(record); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		return nil
	})
}

// Stream writes a CSV file whose rows are produced one at a time by fill,
// so large tables never have to be materialised as [][]string
func (w *CSVWriter) Stream(filePath string, headers []string, bom bool, fill func(emit func([]string) error) error) error {
	return w.files.WriteWith(filePath, func(out io.Writer) error {
		if bom {
			if _, err := out.Write(utf8BOM); err != nil {
				return fmt.Errorf("write bom: %w", err)
			}
		}

		writer := csv.NewWriter(out)
		if len(headers) > 0 {
			if err := writer.Write(headers); err != nil {
				return fmt.Errorf("write header: %w", err)
			}
		}

		if err := fill(writer.Write); err != nil {
			return err
		}

		writer.Flush()
		return writer.Error()
	})
}

// WriteTable writes a table as a BOM-prefixed CSV file
func (w *CSVWriter) WriteTable(filePath string, table Table) error {
	return w.Stream(filePath, table.Headers, true, func(emit func([]string) error) error {
		row := make([]string, len(table.Headers))
		for _, cells := range table.Rows {
			for i := range row {
				row[i] = ""
				if i < len(cells) {
					row[i] = formatCell(cells[i])
				}
			}
			if err := emit(row); err != nil {
				return err
			}
		}
		return nil
	})
}
