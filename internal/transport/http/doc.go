// Package http implements the HTTP handlers of the dashboard. Handlers are
// thin: they parse and validate the request, call a service and format the
// response. Errors go through errors.ErrorHandler and come back as RFC 7807
// problem documents.
//
// # Endpoints
//
//	GET  /                          dashboard page (bar, line and pie charts)
//	GET  /api/dashboard             full dashboard JSON, ?refresh=true reloads
//	GET  /api/dashboard/drugs       category counts
//	GET  /api/dashboard/timeseries  quarterly sums per category
//	GET  /api/dashboard/sites       testing site distribution
//	POST /api/dashboard/refresh     drop the cached dataset snapshot
//	GET  /api/grouping              active drug grouping
//	GET  /api/export/{format}       xlsx, csv-frequency, csv-timeseries, csv-sites
//	GET  /api/health[/ready|/live]  health checks
//	GET  /api/version               build information
//
// Handlers depend on the small interfaces in this package rather than on the
// concrete services, so tests substitute testify mocks.
package http
