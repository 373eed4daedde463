package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New("ID", "filename", "Fentanyl")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow([]Value{Number(1), String("a.png"), Bool(true)}))
	require.NoError(t, tbl.AppendRow([]Value{Number(2), String("b.png"), Bool(false)}))
	return tbl
}

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New("a", "b", "a")
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestAppendRow_WidthMismatch(t *testing.T) {
	tbl, err := New("a", "b")
	require.NoError(t, err)
	assert.ErrorIs(t, tbl.AppendRow([]Value{Null()}), ErrRowWidth)
}

func TestAddAndDropColumns(t *testing.T) {
	tbl := newTestTable(t)

	require.NoError(t, tbl.AddColumn("Fentanyl-like", []Value{Bool(true), Bool(false)}))
	assert.Equal(t, []string{"ID", "filename", "Fentanyl", "Fentanyl-like"}, tbl.Columns())
	assert.ErrorIs(t, tbl.AddColumn("ID", []Value{Null(), Null()}), ErrDuplicateColumn)
	assert.ErrorIs(t, tbl.AddColumn("short", []Value{Null()}), ErrRowWidth)

	require.NoError(t, tbl.DropColumns("Fentanyl"))
	assert.Equal(t, []string{"ID", "filename", "Fentanyl-like"}, tbl.Columns())
	assert.False(t, tbl.HasColumn("Fentanyl"))

	v, err := tbl.Cell(0, "Fentanyl-like")
	require.NoError(t, err)
	assert.True(t, v.Truthy())

	assert.ErrorIs(t, tbl.DropColumns("missing"), ErrUnknownColumn)
}

func TestSetKey(t *testing.T) {
	tests := []struct {
		name    string
		ids     []Value
		wantErr error
	}{
		{name: "unique keys", ids: []Value{Number(1), Number(2)}},
		{name: "duplicate keys", ids: []Value{Number(7), Number(7)}, wantErr: ErrDuplicateKey},
		{name: "null key", ids: []Value{Number(1), Null()}, wantErr: ErrNullKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New("ID")
			require.NoError(t, err)
			for _, id := range tt.ids {
				require.NoError(t, tbl.AppendRow([]Value{id}))
			}

			err = tbl.SetKey("ID")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, tbl.Key())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ID", tbl.Key())
			assert.True(t, tbl.KeyOf(1).Equal(tt.ids[1]))
		})
	}
}

func TestDropKeyColumnClearsKey(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.SetKey("ID"))
	require.NoError(t, tbl.DropColumns("ID"))
	assert.Empty(t, tbl.Key())
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := newTestTable(t)
	clone := tbl.Clone()

	require.NoError(t, clone.Set(0, "filename", String("changed")))
	require.NoError(t, clone.DropColumns("Fentanyl"))

	v, err := tbl.Cell(0, "filename")
	require.NoError(t, err)
	s, _ := v.AsString()
	assert.Equal(t, "a.png", s)
	assert.True(t, tbl.HasColumn("Fentanyl"))
}

func TestFilter(t *testing.T) {
	tbl := newTestTable(t)
	out := tbl.Filter(func(row []Value) bool { return row[2].Truthy() })

	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, tbl.Columns(), out.Columns())
}

func TestValueTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null(), false},
		{"bool true", Bool(true), true},
		{"bool false", Bool(false), false},
		{"zero", Number(0), false},
		{"one", Number(1), true},
		{"empty string", String(""), false},
		{"string false", String("FALSE"), false},
		{"string no", String(" no "), false},
		{"string zero", String("0"), false},
		{"string not detected", String("Not Detected"), false},
		{"string yes", String("yes"), true},
		{"string x", String("x"), true},
		{"string numeric", String("2"), true},
		{"string detected", String(" Detected "), true},
		{"string positive", String("POSITIVE"), true},
		{"string nan", String("NaN"), false},
		{"unrecognised string", String("unknown"), false},
		{"free text", String("see notes"), false},
		{"time", Time(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Truthy())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"", Null()},
		{"   ", Null()},
		{"TRUE", Bool(true)},
		{"false", Bool(false)},
		{"42", Number(42)},
		{"1,000", Number(1000)},
		{"3.5", Number(3.5)},
		{"2023-01-05", String("2023-01-05")},
		{"NaN", String("NaN")},
		{"UCSD", String("UCSD")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.True(t, tt.want.Equal(got), "Parse(%q) = %v (%s)", tt.raw, got, got.Kind())
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "2023-01-05", Time(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, "1", Number(1).String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "", Null().String())
}
