package dataset

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// SheetsSource reads a range of a Google Sheets spreadsheet through the
// Sheets API. The first row of the range is the header.
type SheetsSource struct {
	id            string
	SpreadsheetID string
	Range         string
	clientOptions []option.ClientOption
}

func (s *SheetsSource) ID() string { return s.id }

// Load fetches the range using the formatted cell values.
func (s *SheetsSource) Load(ctx context.Context) (*table.Table, error) {
	svc, err := sheets.NewService(ctx, s.clientOptions...)
	if err != nil {
		return nil, loadError(s.id, fmt.Errorf("failed to create sheets service: %w", err))
	}

	resp, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, loadError(s.id, fmt.Errorf("failed to read range %q: %w", s.Range, err))
	}

	t, err := fromSheetValues(resp.Values)
	if err != nil {
		return nil, loadError(s.id, err)
	}
	return t, nil
}

func fromSheetValues(values [][]interface{}) (*table.Table, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("range is empty")
	}

	b, err := newTableBuilder(cellStrings(values[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range values[1:] {
		if err := b.add(cellStrings(row), i+2); err != nil {
			return nil, err
		}
	}
	return b.t, nil
}

func cellStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func sheetsClientOptions(opts Options) ([]option.ClientOption, error) {
	switch {
	case len(opts.SheetsClientOptions) > 0:
		return opts.SheetsClientOptions, nil
	case opts.SheetsAPIKey != "":
		return []option.ClientOption{option.WithAPIKey(opts.SheetsAPIKey)}, nil
	case opts.SheetsCredentialsFile != "":
		return []option.ClientOption{
			option.WithCredentialsFile(opts.SheetsCredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		}, nil
	default:
		return nil, apperrors.NewConfigError("sheets source needs an API key or a credentials file", nil)
	}
}
