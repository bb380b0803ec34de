package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"bacicli/internal/analytics"
	"bacicli/internal/config"
	"bacicli/internal/files"
)

// Exporter writes the machine readable report outputs: CSV tables, the
// workbook, DOT graphs and the JSON summary
type Exporter struct {
	files  *files.Manager
	csv    *CSVWriter
	logger *slog.Logger
}

// New creates an exporter writing through manager
func New(manager *files.Manager, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		files:  manager,
		csv:    NewCSVWriter(manager),
		logger: logger.With("component", "exporter"),
	}
}

// CSV exposes the underlying CSV writer
func (e *Exporter) CSV() *CSVWriter {
	return e.csv
}

// TablePath is where WriteTables puts a table
func TablePath(name string) string {
	return "tables/" + config.Slug(name) + ".csv"
}

// GraphPath is where WriteGraph puts a graph
func GraphPath(name string) string {
	return "graphs/" + config.Slug(name) + ".dot"
}

// WriteTables writes each table to tables/<name>.csv and returns the
// written paths relative to the output directory
func (e *Exporter) WriteTables(tables []Table) ([]string, error) {
	written := make([]string, 0, len(tables))
	for _, t := range tables {
		path := TablePath(t.Name)
		if err := e.csv.WriteTable(path, t); err != nil {
			return written, fmt.Errorf("failed to write table %s: %w", t.Name, err)
		}
		written = append(written, path)
	}

	e.logger.Info("wrote tables", slog.Int("count", len(written)))
	return written, nil
}

// WriteGraph writes g as graphs/<name>.dot
func (e *Exporter) WriteGraph(name string, g *analytics.CorrelationGraph) (string, error) {
	data, err := g.MarshalDOT(config.Slug(name))
	if err != nil {
		return "", fmt.Errorf("failed to encode graph %s: %w", name, err)
	}

	path := GraphPath(name)
	if err := e.files.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON writes v as indented JSON
func (e *Exporter) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return e.files.WriteFile(path, append(data, '\n'))
}
