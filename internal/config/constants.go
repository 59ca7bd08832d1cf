package config

import "time"

// Application constants
const (
	// Application Info
	AppName     = "TSQuality"
	ServiceName = "tsquality"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultRequestTimeout = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultExportsDir = "data/exports"
	DefaultLogsDir    = "logs"
	DefaultWebDir     = "web"

	// Uploads
	DefaultMaxUploadMB = 50

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API Endpoints
	APIBasePath      = "/api"
	AnalysisEndpoint = "/api/analysis"
	HealthEndpoint   = "/api/health"
	MetricsEndpoint  = "/metrics"

	// Export file names offered for download
	ProcessedCSVName  = "processed_data.csv"
	ProcessedXLSXName = "processed_data.xlsx"
	ReportFileName    = "analysis_report.txt"
)
