package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetGrouped    = "Grouped"
	SheetFrequency  = "Frequency"
	SheetTimeSeries = "TimeSeries"
	SheetSites      = "Sites"
)

// WriteWorkbook writes the grouped table and the three aggregates to an
// .xlsx workbook, one sheet each.
func WriteWorkbook(out io.Writer, dash *domain.Dashboard, grouped *table.Table) error {
	f, err := buildWorkbook(dash, grouped)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to filePath, relative paths going to the
// exports directory, and returns the full path.
func (w *CSVWriter) SaveWorkbook(filePath string, dash *domain.Dashboard, grouped *table.Table) (string, error) {
	fullPath := w.resolvePath(filePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := buildWorkbook(dash, grouped)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return fullPath, nil
}

func buildWorkbook(dash *domain.Dashboard, grouped *table.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetGrouped); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeGroupedSheet(f, grouped); err != nil {
		f.Close()
		return nil, fmt.Errorf("sheet %s: %w", SheetGrouped, err)
	}

	sheets := []struct {
		name    string
		summary Summary
	}{
		{SheetFrequency, SummaryFrequency},
		{SheetTimeSeries, SummaryTimeSeries},
		{SheetSites, SummarySites},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSummarySheet(f, s.name, dash, s.summary); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	return f, nil
}

// writeGroupedSheet streams the table rows; booleans and numbers keep their
// cell types, dates are written as ISO text.
func writeGroupedSheet(f *excelize.File, t *table.Table) error {
	sw, err := f.NewStreamWriter(SheetGrouped)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			switch v.Kind() {
			case table.KindBool, table.KindNumber:
				cells[j] = v.Interface()
			case table.KindNull:
				cells[j] = nil
			default:
				cells[j] = v.String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeSummarySheet(f *excelize.File, sheet string, dash *domain.Dashboard, s Summary) error {
	headers, records, err := SummaryRecords(dash, s)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
