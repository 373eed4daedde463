package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// CSVSource reads a CSV file from the local filesystem.
type CSVSource struct {
	Path string
}

func (s *CSVSource) ID() string { return s.Path }

// Load reads and parses the file.
func (s *CSVSource) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(s.Path, err)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, loadError(s.Path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, loadError(s.Path, err)
	}
	return t, nil
}

// ReadCSV parses a CSV document whose first record is the header. Cells are
// typed with table.Parse.
func ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV document")
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV header", err)
	}

	b, err := newTableBuilder(header)
	if err != nil {
		return nil, err
	}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read CSV", err)
		}
		line, _ := cr.FieldPos(0)
		if err := b.add(record, line); err != nil {
			return nil, err
		}
	}
	return b.t, nil
}
