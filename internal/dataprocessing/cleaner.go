package dataprocessing

import (
	"fmt"
	"strings"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// CleanOptions names the columns the cleaner relies on.
type CleanOptions struct {
	FilenameColumn string
	DateColumn     string
	KeyColumn      string
	// LenientDates drops rows whose check date cannot be parsed instead of
	// failing the load.
	LenientDates bool
}

// DefaultCleanOptions returns the column names used by the DoseCheck sheet
// with the strict date policy.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		FilenameColumn: "filename",
		DateColumn:     "Date Checked",
		KeyColumn:      "ID",
	}
}

// Clean returns a new table in which every row has a non-empty filename, a
// parsed check date and a unique key. The key column becomes the table key.
// raw is not modified, and cleaning an already clean table changes nothing.
func Clean(raw *table.Table, opts CleanOptions) (*table.Table, domain.CleanReport, error) {
	report := domain.CleanReport{RowsIn: raw.Len()}

	for _, col := range []string{opts.FilenameColumn, opts.DateColumn, opts.KeyColumn} {
		if !raw.HasColumn(col) {
			return nil, report, apperrors.NewDataIntegrityError(
				fmt.Sprintf("required column %q is missing", col), table.ErrUnknownColumn).
				WithContext("column", col)
		}
	}
	fileIdx, _ := raw.Column(opts.FilenameColumn)
	dateIdx, _ := raw.Column(opts.DateColumn)
	keyIdx, _ := raw.Column(opts.KeyColumn)

	out, err := table.New(raw.Columns()...)
	if err != nil {
		return nil, report, apperrors.NewDataIntegrityError("invalid column set", err)
	}

	for i := 0; i < raw.Len(); i++ {
		row := raw.Row(i)
		if missingFilename(row[fileIdx]) {
			report.DroppedMissingFilename++
			continue
		}

		date, ok := parseDate(row[dateIdx])
		if !ok {
			if opts.LenientDates {
				report.DroppedBadDate++
				continue
			}
			return nil, report, apperrors.NewDataIntegrityError(
				fmt.Sprintf("unparseable %s %q for %s %s", opts.DateColumn, row[dateIdx].String(), opts.KeyColumn, row[keyIdx].String()), nil).
				WithContext("key", row[keyIdx].String()).
				WithContext("value", row[dateIdx].String())
		}

		cleaned := make([]table.Value, len(row))
		copy(cleaned, row)
		cleaned[dateIdx] = date
		if err := out.AppendRow(cleaned); err != nil {
			return nil, report, apperrors.NewDataIntegrityError("failed to copy row", err)
		}
	}

	if err := out.SetKey(opts.KeyColumn); err != nil {
		return nil, report, apperrors.NewDataIntegrityError(
			fmt.Sprintf("column %q is not a valid key", opts.KeyColumn), err).
			WithContext("column", opts.KeyColumn)
	}

	report.RowsOut = out.Len()
	return out, report, nil
}

// missingFilename treats null and blank strings as missing.
func missingFilename(v table.Value) bool {
	if v.IsNull() {
		return true
	}
	s, ok := v.AsString()
	return ok && strings.TrimSpace(s) == ""
}
