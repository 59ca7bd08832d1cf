// Package http implements the HTTP handlers of the data-quality service.
// Handlers stay thin: they read the multipart upload and form parameters,
// call the service layer and render the result.
//
// # Endpoints
//
//	POST /api/analysis                 run every check, respond with the report
//	POST /api/analysis/validate        structural validation only
//	POST /api/analysis/export/{format} csv, xlsx or report attachment
//	GET  /api/analysis/defaults        parameter domains and defaults
//	GET  /api/health[/ready|/live]     health probes
//	GET  /api/version                  build information
//
// The file travels in the multipart field "file". Parameters (column,
// iqr_multiplier, jump_threshold, ma_window, trend_baseline) may be form
// fields or query values; absent ones take the configured defaults.
//
// # Error Handling
//
// Failures are answered with RFC 7807 problems produced by
// errors.ErrorHandler:
//
//	{
//	    "type": "/errors/data/invalid",
//	    "title": "Invalid Data",
//	    "status": 422,
//	    "detail": "The file must contain a 'Date' column",
//	    "instance": "/api/analysis",
//	    "reason": "missing_date_column",
//	    "trace_id": "..."
//	}
package http
