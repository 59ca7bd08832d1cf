// Package config provides centralized configuration management for the
// analyzer. It loads configuration from multiple sources, validates it, and
// provides a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is assembled in the following order, later sources winning:
//
//	1. Default values (Default)
//	2. YAML file (config.yaml, configs/config.yaml, or TSQ_CONFIG_FILE)
//	3. Environment variables, including those from an optional .env file
//
// # Environment Variables
//
// All environment variables follow the pattern TSQ_<SECTION>_<FIELD>:
//
//	TSQ_SERVER_PORT=8080
//	TSQ_LOGGING_LEVEL=debug
//	TSQ_ANALYSIS_IQR_MULTIPLIER=2.0
//	TSQ_ANALYSIS_MA_WINDOW=20
//	TSQ_UPLOAD_MAX_SIZE_MB=100
//
// # Validation
//
// Every section carries validator tags. The analysis section pins the
// parameter domains exposed to users:
//
//	iqr_multiplier  1.0 - 3.0
//	jump_threshold  0.05 - 0.50
//	ma_window       5 - 100
//	trend_baseline  downward | none
//
// # Path Management
//
// Paths resolves data, export and log directories relative to the
// executable unless configured as absolute paths:
//
//	paths, err := cfg.ResolvePaths()
//	exportPath := paths.GetExportPath("processed_data.csv")
package config
