// Package app wires the trade report API together: configuration, logging,
// OpenTelemetry, the report and health services, the chi router and the
// HTTP server.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config.yaml and BACI_* variables
//	2. Initialize logging and observability
//	3. Resolve and create the input and report directories
//	4. Create the report and health services
//	5. Set up middleware and handlers
//	6. Start the server and the first report run
//
// # Usage
//
//	application, err := app.NewApplication(nil)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run waits for SIGINT or SIGTERM, then lets in-flight requests finish,
// cancels a background report run and flushes telemetry, all within the
// configured shutdown timeout. The package never calls os.Exit.
package app
