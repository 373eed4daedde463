package exporter

import (
	"fmt"
	"io"

	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// Summary names one of the chart aggregates.
type Summary string

const (
	SummaryFrequency  Summary = "frequency"
	SummaryTimeSeries Summary = "timeseries"
	SummarySites      Summary = "sites"
)

// Summaries lists every aggregate in the order they are exported.
var Summaries = []Summary{SummaryFrequency, SummaryTimeSeries, SummarySites}

// FileName returns the default file name for the summary.
func (s Summary) FileName() string {
	return fmt.Sprintf("dosecheck_%s.csv", s)
}

// SummaryRecords returns the header and rows of one aggregate.
func SummaryRecords(dash *domain.Dashboard, s Summary) ([]string, [][]string, error) {
	switch s {
	case SummaryFrequency:
		records := make([][]string, len(dash.Frequencies))
		for i, f := range dash.Frequencies {
			records[i] = []string{f.Category, formatInt(f.Count)}
		}
		return []string{"Category", "Count"}, records, nil

	case SummaryTimeSeries:
		headers := append([]string{"Quarter End", "Quarter Start"}, dash.Categories...)
		records := make([][]string, len(dash.TimeSeries))
		for i, b := range dash.TimeSeries {
			rec := make([]string, 0, len(headers))
			rec = append(rec, formatDate(b.End), formatDate(b.Start))
			for _, c := range dash.Categories {
				rec = append(rec, formatInt(b.Counts[c]))
			}
			records[i] = rec
		}
		return headers, records, nil

	case SummarySites:
		records := make([][]string, len(dash.Sites))
		for i, s := range dash.Sites {
			records[i] = []string{s.Site, formatInt(s.Count), formatPercent(s.Percent)}
		}
		return []string{"Site", "Count", "Percent"}, records, nil
	}
	return nil, nil, fmt.Errorf("unknown summary %q", s)
}

// WriteSummaryCSV encodes one aggregate as CSV to out.
func WriteSummaryCSV(out io.Writer, dash *domain.Dashboard, s Summary) error {
	headers, records, err := SummaryRecords(dash, s)
	if err != nil {
		return err
	}
	return EncodeCSV(out, WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
}

// WriteSummaries writes every aggregate to its own file and returns the
// paths written.
func (w *CSVWriter) WriteSummaries(dash *domain.Dashboard) ([]string, error) {
	written := make([]string, 0, len(Summaries))
	for _, s := range Summaries {
		headers, records, err := SummaryRecords(dash, s)
		if err != nil {
			return written, err
		}
		path, err := w.WriteCSV(s.FileName(), WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
		if err != nil {
			return written, fmt.Errorf("failed to write %s summary: %w", s, err)
		}
		written = append(written, path)
	}
	return written, nil
}
