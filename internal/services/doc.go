// Package services implements the business logic layer of the trade report.
// It sits between the HTTP handlers and the data processing, analytics,
// exporter and chart packages.
//
// # Available Services
//
//	- ReportService: runs the pipeline (load, normalize, slice, analyze,
//	  render, export) and keeps the last completed Report in memory
//	- HealthService: liveness, readiness and version information
//
// # Pipeline
//
// Every stage runs in its own OpenTelemetry span and is timed into the
// pipeline metrics. The four per-kind analyses run concurrently; a kind whose
// clustering input is degenerate (too few entities, non-finite cells) is
// recorded in Report.Skipped and the run carries on. Any other failure aborts
// the run and leaves the previous report in place.
//
// # Error Handling
//
// Services return sentinel errors (ErrReportRunning, ErrReportNotReady,
// ErrUnknownKind, ErrAnalysisSkipped) or typed AppErrors from
// internal/errors; the transport layer maps both to problem details.
package services
