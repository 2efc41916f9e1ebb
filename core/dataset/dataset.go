package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a column name is not part of the schema.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDuplicateColumn is returned when a schema names the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrRowWidth is returned when a row has more values than the schema has columns.
	ErrRowWidth = errors.New("row wider than schema")
)

// Record is one row of a Dataset, aligned with the dataset's column list.
type Record []any

// Dataset is an ordered, immutable collection of records.
type Dataset struct {
	name    string
	columns []string
	lookup  map[string]int
	records []Record
}

// New builds a Dataset from a column list and rows.
// Short rows are padded with nil; rows wider than the schema are rejected.
func New(name string, columns []string, rows [][]any) (*Dataset, error) {
	lookup := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, exists := lookup[col]; exists {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateColumn, col, name)
		}
		lookup[col] = i
	}

	records := make([]Record, len(rows))
	for pos, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("%w: %s row %d has %d values for %d columns", ErrRowWidth, name, pos, len(row), len(columns))
		}
		rec := make(Record, len(columns))
		copy(rec, row)
		records[pos] = rec
	}

	return &Dataset{
		name:    name,
		columns: append([]string(nil), columns...),
		lookup:  lookup,
		records: records,
	}, nil
}

// Name returns the dataset's display name (usually the source it was loaded from).
func (d *Dataset) Name() string {
	return d.name
}

// Columns returns a copy of the column list.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// ColumnIndex returns the index of a column in the schema.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.lookup[name]
	return i, ok
}

// HasColumn reports whether the schema contains the column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.lookup[name]
	return ok
}

// Record returns the record at a position. The returned slice must not be modified.
func (d *Dataset) Record(pos int) Record {
	return d.records[pos]
}

// Value returns a single cell.
func (d *Dataset) Value(pos int, column string) (any, error) {
	i, ok := d.lookup[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownColumn, column, d.name)
	}
	return d.records[pos][i], nil
}

// Key extracts and normalizes the key value of the record at pos.
// ok is false when the key is null.
func (d *Dataset) Key(pos int, column string) (key string, ok bool, err error) {
	v, err := d.Value(pos, column)
	if err != nil {
		return "", false, err
	}
	return NormalizeKey(v)
}
