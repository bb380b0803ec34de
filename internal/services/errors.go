package services

import "errors"

// Report service errors
var (
	// ErrReportRunning is returned by Run while another run is in progress
	ErrReportRunning = errors.New("report run already in progress")

	// ErrReportNotReady is returned before the first run has finished
	ErrReportNotReady = errors.New("no report has been generated yet")

	// ErrUnknownKind is returned for an entity kind outside the known set
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrAnalysisSkipped is returned when degenerate input prevented an analysis
	ErrAnalysisSkipped = errors.New("analysis skipped")
)
