// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and CLI commands on one side and the
// dataset and dataprocessing packages on the other.
//
// # Available Services
//
//	- DashboardService: loads the dataset snapshot, cleans it, groups drugs
//	  into categories and computes the three chart aggregates
//	- HealthService: health, readiness and version reporting
//	- ExportService: writes the aggregates and the grouped table as CSV or
//	  XLSX
//
// # Pipeline
//
// DashboardService.Build runs these stages in order, each inside its own
// OpenTelemetry span:
//
//	load -> clean -> group -> aggregate
//
// Errors are wrapped with the stage name, so callers see messages such as
// "group: configuration error: category \"Opioid\" lists unknown substance".
// The underlying *errors.AppError is preserved for errors.As.
//
// # Testing
//
// Services are tested against in-memory dataset.Source implementations:
//
//	src := &stubSource{id: "mem", table: raw}
//	svc := NewDashboardService(DashboardConfig{Source: src, ...})
//	dash, err := svc.Build(ctx, false)
package services
