// Package table holds the small column-ordered, in-memory table the
// dashboard pipeline passes between its stages.
package table

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a named column does not exist.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDuplicateColumn is returned when a column name is added twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrDuplicateKey is returned by SetKey when key values repeat.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNullKey is returned by SetKey when a key cell is empty.
	ErrNullKey = errors.New("null key")
	// ErrRowWidth is returned when a row does not match the column count.
	ErrRowWidth = errors.New("row width mismatch")
)

// Table is a rectangular set of rows with ordered, uniquely named columns.
// An optional key column identifies each row.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
	key     string
}

// New creates an empty table with the given column names.
func New(columns ...string) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, ok := t.index[c]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Key returns the key column name, or "" when no key is set.
func (t *Table) Key() string { return t.key }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the position of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AppendRow adds a row. The row is copied.
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrRowWidth, len(row), len(t.columns))
	}
	r := make([]Value, len(row))
	copy(r, row)
	t.rows = append(t.rows, r)
	return nil
}

// Row returns the cells of row i. The returned slice must not be modified.
func (t *Table) Row(i int) []Value { return t.rows[i] }

// Cell returns the cell at row i of the named column.
func (t *Table) Cell(i int, column string) (Value, error) {
	c, ok := t.index[column]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return t.rows[i][c], nil
}

// Values returns a copy of the named column.
func (t *Table) Values(column string) ([]Value, error) {
	c, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[c]
	}
	return out, nil
}

// Set replaces the cell at row i of the named column.
func (t *Table) Set(i int, column string, v Value) error {
	c, ok := t.index[column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	t.rows[i][c] = v
	return nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: make([]string, len(t.columns)),
		index:   make(map[string]int, len(t.index)),
		rows:    make([][]Value, len(t.rows)),
		key:     t.key,
	}
	copy(out.columns, t.columns)
	for k, v := range t.index {
		out.index[k] = v
	}
	for i, r := range t.rows {
		out.rows[i] = make([]Value, len(r))
		copy(out.rows[i], r)
	}
	return out
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row []Value) bool) *Table {
	out := &Table{
		columns: make([]string, len(t.columns)),
		index:   make(map[string]int, len(t.index)),
		key:     t.key,
	}
	copy(out.columns, t.columns)
	for k, v := range t.index {
		out.index[k] = v
	}
	for _, r := range t.rows {
		if keep(r) {
			c := make([]Value, len(r))
			copy(c, r)
			out.rows = append(out.rows, c)
		}
	}
	return out
}

// AddColumn appends a column with one value per row.
func (t *Table) AddColumn(name string, values []Value) error {
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("%w: column %q has %d values for %d rows", ErrRowWidth, name, len(values), len(t.rows))
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], values[i])
	}
	return nil
}

// DropColumns removes the named columns. Every name must exist. Dropping the
// key column clears the key.
func (t *Table) DropColumns(names ...string) error {
	drop := make(map[int]bool, len(names))
	for _, n := range names {
		c, ok := t.index[n]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, n)
		}
		drop[c] = true
		if n == t.key {
			t.key = ""
		}
	}
	if len(drop) == 0 {
		return nil
	}

	keep := make([]int, 0, len(t.columns)-len(drop))
	for i := range t.columns {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	columns := make([]string, len(keep))
	index := make(map[string]int, len(keep))
	for j, i := range keep {
		columns[j] = t.columns[i]
		index[t.columns[i]] = j
	}
	for r, row := range t.rows {
		nr := make([]Value, len(keep))
		for j, i := range keep {
			nr[j] = row[i]
		}
		t.rows[r] = nr
	}
	t.columns = columns
	t.index = index
	return nil
}

// SetKey makes the named column the table's primary key. Every key cell must
// be non-null and distinct.
func (t *Table) SetKey(name string) error {
	c, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	seen := make(map[string]int, len(t.rows))
	for i, r := range t.rows {
		v := r[c]
		if v.IsNull() {
			return fmt.Errorf("%w: row %d", ErrNullKey, i)
		}
		k := v.String()
		if prev, dup := seen[k]; dup {
			return fmt.Errorf("%w: %q at rows %d and %d", ErrDuplicateKey, k, prev, i)
		}
		seen[k] = i
	}
	t.key = name
	return nil
}

// KeyOf returns the key cell of row i, or null when no key is set.
func (t *Table) KeyOf(i int) Value {
	if t.key == "" {
		return Null()
	}
	return t.rows[i][t.index[t.key]]
}
