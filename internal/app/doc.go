// Package app wires the DoseCheck dashboard together: configuration,
// logging and OpenTelemetry, the dataset source and its snapshot cache, the
// dashboard and export services, and the chi router that serves them.
//
// # Initialization Flow
//
//	1. Resolve and create the data, exports and logs directories
//	2. Initialize OpenTelemetry and the dashboard metrics
//	3. Load and validate the drug grouping
//	4. Open the dataset source named by the config
//	5. Create the services and mount the HTTP routes
//
// # Routes
//
//	GET /                    rendered dashboard page
//	/api/...                 chart-data JSON, exports and health
//	GET /metrics             Prometheus scrape endpoint, when enabled
//
// # Usage
//
//	a, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return a.Run()
//
// Run blocks until SIGINT or SIGTERM and then shuts the server down within
// the configured shutdown timeout. Initialization errors are returned to
// the caller; the package never calls os.Exit.
package app
