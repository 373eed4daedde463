// Package exporter writes dashboard data to CSV and XLSX files.
//
// CSVWriter is the core CSV writer, with UTF-8 BOM support for Excel and a
// streaming writer for large tables. Relative paths land in the configured
// exports directory.
//
// Summaries (frequency, timeseries, sites) mirror the three charts. The
// workbook export carries the grouped table on its first sheet and one sheet
// per summary.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths)
//	files, err := w.WriteSummaries(dash)
//
//	// Stream a workbook to an HTTP response
//	err = exporter.WriteWorkbook(rw, dash, grouped)
package exporter
