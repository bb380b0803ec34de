// Package exporter writes the machine readable outputs of a trade report.
//
// Every analysis result is first turned into a Table, a named grid of cells.
// The same tables feed two sinks:
//
// CSVWriter: UTF-8 CSV files with a BOM for Excel compatibility, one file per
// table under tables/.
//
// WriteWorkbook: a single .xlsx workbook with one sheet per table.
//
// Correlation graphs are written as Graphviz DOT under graphs/ and the run
// summary as JSON. All writes go through files.Manager, so a crashed run never
// leaves a half-written artifact behind.
//
// Example usage:
//
//	exp := exporter.New(files.NewManager(paths), logger)
//	tables := []exporter.Table{exporter.AssignmentsTable("export_partner_clusters", res.Assignments)}
//	written, err := exp.WriteTables(tables)
//	err = exp.WriteWorkbook(paths.WorkbookFile, tables)
package exporter
