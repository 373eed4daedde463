package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// ExcelSource reads the first worksheet of a local XLSX workbook.
type ExcelSource struct {
	Path string
}

func (s *ExcelSource) ID() string { return s.Path }

// Load opens the workbook and reads its first sheet.
func (s *ExcelSource) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(s.Path, err)
	}
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, loadError(s.Path, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	t, err := readWorkbook(f)
	if err != nil {
		return nil, loadError(s.Path, err)
	}
	return t, nil
}

// ReadExcel parses a workbook from r.
func ReadExcel(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

// readWorkbook reads the first sheet. Row one is the header. Cells come
// back as displayed, so dates keep their sheet formatting and are parsed by
// the cleaner.
func readWorkbook(f *excelize.File) (*table.Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	b, err := newTableBuilder(rows[0])
	if err != nil {
		return nil, err
	}
	for i, row := range rows[1:] {
		if err := b.add(row, i+2); err != nil {
			return nil, err
		}
	}
	return b.t, nil
}
