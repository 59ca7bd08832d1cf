// Package services holds the application logic between the HTTP handlers
// and the analysis engine.
//
// AnalysisService runs one upload through the pipeline: upload limits,
// parsing, structural validation, preprocessing and every quality check on
// the selected column. Each check runs in its own OpenTelemetry span and
// feeds the business metrics. A check that cannot run on the column is
// recorded in the report and never stops the others; a structural failure
// stops the run before any check.
//
// HealthService backs the health, readiness, liveness and version endpoints.
//
// Errors are returned as sentinels (ErrNoFile, ErrInvalidParams), engine
// and parser errors wrapped with %w, or *errors.AppError for export
// failures. The transport layer maps all of them to RFC 7807 responses.
package services
