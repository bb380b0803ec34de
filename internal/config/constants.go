package config

import "time"

// Application constants
const (
	// Application Info
	AppName = "BACI Trade Report"

	// BACI release layout
	DefaultTradeFilePattern    = "BACI_*_Y*_V*.csv"
	DefaultCountryCodesPattern = "country_codes_V*.csv"
	DefaultProductCodesPattern = "product_codes_*_V*.csv"
	DefaultTradeFileLimit      = 29

	// Analysis defaults
	DefaultFocusCountry         = "United Kingdom"
	DefaultTopN                 = 10
	DefaultClusterCount         = 4
	DefaultClusterSeed          = 123
	DefaultMaxIterations        = 100
	DefaultRestarts             = 1
	DefaultCorrelationThreshold = 0.8
	DefaultLoadWorkers          = 4

	// Category merge applied by the normalizer
	PetroleumPattern = "petroleum"
	PetroleumLabel   = "Petroleum Products"

	// File Paths (relative to the base directory)
	DefaultInputDir  = "data/baci"
	DefaultOutputDir = "data/reports"
	DefaultLogsDir   = "logs"

	// Output files
	WorkbookFileName = "trade_report.xlsx"
	SummaryFileName  = "report.json"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Timeouts
	DefaultReportTimeout = 30 * time.Minute

	// API Endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
