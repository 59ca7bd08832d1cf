// Package app wires the analyzer's HTTP server together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, TSQ_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Resolve and create the data, exports and logs directories
//	4. Create the analysis and health services
//	5. Build the chi router and its middleware chain
//	6. Configure the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Tests build an application from an explicit configuration with New and
// drive Router directly.
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes telemetry. Initialization errors are
// returned to the caller; the package never calls os.Exit.
package app
