package dataset

import (
	"fmt"
	"strings"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// tableBuilder turns a header plus string records into a table. Short
// records are padded with nulls, since excelize and the Sheets API drop
// trailing empty cells. Blank records are skipped.
type tableBuilder struct {
	t     *table.Table
	width int
}

func newTableBuilder(header []string) (*tableBuilder, error) {
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t, err := table.New(normalizeHeader(header)...)
	if err != nil {
		return nil, err
	}
	return &tableBuilder{t: t, width: len(header)}, nil
}

// add appends one record. line is used in error messages only.
func (b *tableBuilder) add(record []string, line int) error {
	if blank(record) {
		return nil
	}
	if len(record) > b.width {
		for _, extra := range record[b.width:] {
			if strings.TrimSpace(extra) != "" {
				return apperrors.NewParsingError(
					fmt.Sprintf("line %d: %d fields, header has %d", line, len(record), b.width), nil)
			}
		}
		record = record[:b.width]
	}

	row := make([]table.Value, b.width)
	for i, raw := range record {
		row[i] = table.Parse(raw)
	}
	return b.t.AppendRow(row)
}

func blank(record []string) bool {
	for _, s := range record {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// normalizeHeader names blank headers "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ... in order of appearance.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
