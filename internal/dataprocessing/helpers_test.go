package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// buildTable creates a table from string cells parsed the way the dataset
// readers parse them.
func buildTable(t *testing.T, columns []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl, err := table.New(columns...)
	require.NoError(t, err)
	for _, r := range rows {
		cells := make([]table.Value, len(r))
		for i, raw := range r {
			cells[i] = table.Parse(raw)
		}
		require.NoError(t, tbl.AppendRow(cells))
	}
	return tbl
}

func rowsOf(tbl *table.Table) [][]table.Value {
	out := make([][]table.Value, tbl.Len())
	for i := range out {
		out[i] = tbl.Row(i)
	}
	return out
}

func columnOf(t *testing.T, tbl *table.Table, name string) []table.Value {
	t.Helper()
	values, err := tbl.Values(name)
	require.NoError(t, err)
	return values
}

// tableUnderTest pairs a grouped table with its category names.
type tableUnderTest struct {
	*table.Table
	categories []string
}
