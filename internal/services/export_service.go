package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/exporter"
)

// ExportFormat describes one downloadable export.
type ExportFormat struct {
	Name        string
	ContentType string
	FileName    string
}

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportFormats = map[string]ExportFormat{
	"xlsx":           {Name: "xlsx", ContentType: contentTypeXLSX, FileName: "dosecheck.xlsx"},
	"csv-frequency":  {Name: "csv-frequency", ContentType: contentTypeCSV, FileName: exporter.SummaryFrequency.FileName()},
	"csv-timeseries": {Name: "csv-timeseries", ContentType: contentTypeCSV, FileName: exporter.SummaryTimeSeries.FileName()},
	"csv-sites":      {Name: "csv-sites", ContentType: contentTypeCSV, FileName: exporter.SummarySites.FileName()},
}

// LookupExportFormat returns the format registered under name.
func LookupExportFormat(name string) (ExportFormat, error) {
	f, ok := exportFormats[name]
	if !ok {
		return ExportFormat{}, apperrors.NewNotFoundError(fmt.Sprintf("export format %q", name)).
			WithContext("supported", ExportFormatNames())
	}
	return f, nil
}

// ExportFormatNames lists the registered formats in sorted order.
func ExportFormatNames() []string {
	names := make([]string, 0, len(exportFormats))
	for n := range exportFormats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ExportService writes dashboard aggregates and the grouped table.
type ExportService struct {
	dashboards *DashboardService
	writer     *exporter.CSVWriter
	logger     *slog.Logger
}

// NewExportService creates an export service backed by the dashboard
// pipeline. writer is only needed for ExportAll.
func NewExportService(dashboards *DashboardService, writer *exporter.CSVWriter, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		dashboards: dashboards,
		writer:     writer,
		logger:     logger.With(slog.String("component", "export_service")),
	}
}

// Export streams the named format to out.
func (s *ExportService) Export(ctx context.Context, format string, out io.Writer) error {
	f, err := LookupExportFormat(format)
	if err != nil {
		return err
	}

	res, err := s.dashboards.Run(ctx, false)
	if err != nil {
		return err
	}

	switch f.Name {
	case "xlsx":
		err = exporter.WriteWorkbook(out, res.Dashboard, res.Grouped)
	case "csv-frequency":
		err = exporter.WriteSummaryCSV(out, res.Dashboard, exporter.SummaryFrequency)
	case "csv-timeseries":
		err = exporter.WriteSummaryCSV(out, res.Dashboard, exporter.SummaryTimeSeries)
	case "csv-sites":
		err = exporter.WriteSummaryCSV(out, res.Dashboard, exporter.SummarySites)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", f.Name, err)
	}

	s.logger.InfoContext(ctx, "export written",
		slog.String("format", f.Name),
		slog.String("snapshot_id", res.Dashboard.SnapshotID))
	return nil
}

// ExportAll writes every summary CSV, the grouped table as CSV and the
// workbook to the exports directory and returns the files written.
func (s *ExportService) ExportAll(ctx context.Context, refresh bool) ([]string, error) {
	if s.writer == nil {
		return nil, fmt.Errorf("export: no output directory configured")
	}

	res, err := s.dashboards.Run(ctx, refresh)
	if err != nil {
		return nil, err
	}

	files, err := s.writer.WriteSummaries(res.Dashboard)
	if err != nil {
		return files, err
	}
	grouped, err := s.writer.WriteTableCSV("dosecheck_grouped.csv", res.Grouped)
	if err != nil {
		return files, err
	}
	files = append(files, grouped)
	book, err := s.writer.SaveWorkbook(exportFormats["xlsx"].FileName, res.Dashboard, res.Grouped)
	if err != nil {
		return files, err
	}
	files = append(files, book)

	s.logger.InfoContext(ctx, "exports written",
		slog.Int("files", len(files)),
		slog.String("snapshot_id", res.Dashboard.SnapshotID))
	return files, nil
}
