package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/SuperSnake427/DosecheckDashboard/internal/dataprocessing"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

var rawColumns = []string{"ID", "filename", "Date Checked", "Site", "Fentanyl", "Heroin", "Cocaine"}

// rawRows holds one row without a filename.
var rawRows = [][]string{
	{"1", "a.png", "2023-01-15", "Fixed", "TRUE", "FALSE", "FALSE"},
	{"2", "b.png", "2023-02-20", "Festival", "FALSE", "TRUE", "TRUE"},
	{"3", "", "2023-03-01", "Fixed", "TRUE", "TRUE", "TRUE"},
	{"4", "d.png", "2023-05-02", "Fixed", "FALSE", "FALSE", "TRUE"},
}

type stubSource struct {
	id    string
	rows  [][]string
	err   error
	loads atomic.Int32
}

func (s *stubSource) ID() string { return s.id }

func (s *stubSource) Load(context.Context) (*table.Table, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	tbl, err := table.New(rawColumns...)
	if err != nil {
		return nil, err
	}
	for _, r := range s.rows {
		cells := make([]table.Value, len(r))
		for i, raw := range r {
			cells[i] = table.Parse(raw)
		}
		if err := tbl.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func testGrouping() dataprocessing.Grouping {
	return dataprocessing.Grouping{Categories: []dataprocessing.Category{
		{Name: "Opioid", Substances: []string{"Fentanyl", "Heroin"}},
		{Name: "Stimulant", Substances: []string{"Cocaine"}},
	}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestDashboardService(t *testing.T, src *stubSource, g dataprocessing.Grouping) *DashboardService {
	t.Helper()
	return NewDashboardService(DashboardConfig{
		Source:     src,
		Grouping:   g,
		Clean:      dataprocessing.DefaultCleanOptions(),
		SiteColumn: "Site",
		Logger:     discardLogger(),
	})
}

func newStubSource() *stubSource {
	return &stubSource{id: "mem://doses", rows: rawRows}
}

var errBoom = errors.New("boom")
