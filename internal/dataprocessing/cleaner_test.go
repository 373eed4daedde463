package dataprocessing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

var rawColumns = []string{"ID", "filename", "Date Checked", "Site", "Fentanyl", "Heroin"}

func TestClean_DropsMissingFilenames(t *testing.T) {
	raw := buildTable(t, rawColumns,
		[]string{"1", "a.csv", "2023-01-05", "North", "true", "false"},
		[]string{"2", "", "2023-02-01", "North", "false", "true"},
		[]string{"3", "   ", "2023-02-02", "South", "false", "true"},
		[]string{"4", "d.csv", "2023-03-01", "South", "false", "false"},
	)

	cleaned, report, err := Clean(raw, DefaultCleanOptions())
	require.NoError(t, err)

	assert.Equal(t, domain.CleanReport{RowsIn: 4, DroppedMissingFilename: 2, RowsOut: 2}, report)
	assert.Equal(t, "ID", cleaned.Key())
	assert.Equal(t, []string{"1", "4"}, []string{cleaned.KeyOf(0).String(), cleaned.KeyOf(1).String()})

	for _, v := range columnOf(t, cleaned, "filename") {
		s, ok := v.AsString()
		require.True(t, ok)
		assert.NotEmpty(t, s)
	}
}

func TestClean_ParsesDates(t *testing.T) {
	raw := buildTable(t, rawColumns,
		[]string{"1", "a", "2023-01-05", "North", "true", "false"},
		[]string{"2", "b", "2/14/2023", "North", "true", "false"},
		[]string{"3", "c", "March 3, 2023", "North", "true", "false"},
		[]string{"4", "d", "1/5/23 10:30", "North", "true", "false"},
		[]string{"5", "e", "44931", "North", "true", "false"},
		[]string{"6", "f", "05.01.2023", "North", "true", "false"},
	)

	cleaned, report, err := Clean(raw, DefaultCleanOptions())
	require.NoError(t, err)
	assert.Equal(t, 6, report.RowsOut)

	want := []time.Time{
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 5, 10, 30, 0, 0, time.UTC),
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	for i, v := range columnOf(t, cleaned, "Date Checked") {
		got, ok := v.AsTime()
		require.True(t, ok, "row %d", i)
		assert.True(t, want[i].Equal(got), "row %d: got %s", i, got)
	}
}

func TestClean_DatePolicy(t *testing.T) {
	raw := buildTable(t, rawColumns,
		[]string{"1", "a", "2023-01-05", "North", "true", "false"},
		[]string{"2", "b", "not a date", "North", "false", "true"},
		[]string{"3", "c", "", "North", "false", "true"},
	)

	t.Run("strict", func(t *testing.T) {
		cleaned, _, err := Clean(raw, DefaultCleanOptions())
		require.Error(t, err)
		assert.Nil(t, cleaned)
		assert.True(t, errors.Is(err, ErrDataIntegrity))
		assert.Contains(t, err.Error(), "not a date")
		assert.Contains(t, err.Error(), "ID 2")
	})

	t.Run("lenient", func(t *testing.T) {
		opts := DefaultCleanOptions()
		opts.LenientDates = true

		cleaned, report, err := Clean(raw, opts)
		require.NoError(t, err)
		assert.Equal(t, 1, cleaned.Len())
		assert.Equal(t, 2, report.DroppedBadDate)
		assert.Equal(t, 1, report.RowsOut)
	})
}

func TestClean_Errors(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]string
		opts    CleanOptions
	}{
		{
			name:    "missing filename column",
			columns: []string{"ID", "Date Checked"},
			rows:    [][]string{{"1", "2023-01-01"}},
			opts:    DefaultCleanOptions(),
		},
		{
			name:    "missing date column",
			columns: []string{"ID", "filename"},
			rows:    [][]string{{"1", "a"}},
			opts:    DefaultCleanOptions(),
		},
		{
			name:    "missing key column",
			columns: []string{"filename", "Date Checked"},
			rows:    [][]string{{"a", "2023-01-01"}},
			opts:    DefaultCleanOptions(),
		},
		{
			name:    "duplicate key",
			columns: []string{"ID", "filename", "Date Checked"},
			rows:    [][]string{{"7", "a", "2023-01-01"}, {"7", "b", "2023-01-02"}},
			opts:    DefaultCleanOptions(),
		},
		{
			name:    "null key",
			columns: []string{"ID", "filename", "Date Checked"},
			rows:    [][]string{{"", "a", "2023-01-01"}},
			opts:    DefaultCleanOptions(),
		},
		{
			name:    "renamed columns absent",
			columns: []string{"ID", "filename", "Date Checked"},
			rows:    [][]string{{"1", "a", "2023-01-01"}},
			opts:    CleanOptions{FilenameColumn: "file", DateColumn: "Date Checked", KeyColumn: "ID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := buildTable(t, tt.columns, tt.rows...)
			cleaned, _, err := Clean(raw, tt.opts)
			require.Error(t, err)
			assert.Nil(t, cleaned)
			assert.ErrorIs(t, err, ErrDataIntegrity)

			typ, ok := apperrors.TypeOf(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrTypeDataIntegrity, typ)
		})
	}
}

func TestClean_DuplicateKeyAfterFilenameFilterIsAllowed(t *testing.T) {
	raw := buildTable(t, rawColumns,
		[]string{"1", "", "2023-01-05", "North", "true", "false"},
		[]string{"1", "a", "2023-01-06", "North", "true", "false"},
	)

	cleaned, _, err := Clean(raw, DefaultCleanOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned.Len())
}

func TestClean_Idempotent(t *testing.T) {
	raw := buildTable(t, rawColumns,
		[]string{"1", "a", "2023-01-05", "North", "true", "false"},
		[]string{"2", "", "2023-02-01", "North", "false", "true"},
		[]string{"3", "c", "4/1/2023", "South", "0", "1"},
	)

	once, _, err := Clean(raw, DefaultCleanOptions())
	require.NoError(t, err)
	twice, report, err := Clean(once, DefaultCleanOptions())
	require.NoError(t, err)

	assert.Equal(t, domain.CleanReport{RowsIn: 2, RowsOut: 2}, report)
	assert.Equal(t, once.Columns(), twice.Columns())
	assert.Equal(t, once.Key(), twice.Key())
	if diff := cmp.Diff(rowsOf(once), rowsOf(twice)); diff != "" {
		t.Errorf("second Clean changed the table (-once +twice):\n%s", diff)
	}
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	raw := buildTable(t, rawColumns,
		[]string{"1", "a", "2023-01-05", "North", "true", "false"},
		[]string{"2", "", "2023-02-01", "North", "false", "true"},
	)
	before := raw.Clone()

	_, _, err := Clean(raw, DefaultCleanOptions())
	require.NoError(t, err)

	assert.Equal(t, "", raw.Key())
	if diff := cmp.Diff(rowsOf(before), rowsOf(raw)); diff != "" {
		t.Errorf("input changed (-before +after):\n%s", diff)
	}
	v, err := raw.Cell(0, "Date Checked")
	require.NoError(t, err)
	assert.Equal(t, table.KindString, v.Kind())
}
