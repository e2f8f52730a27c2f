package domain

import (
	"fmt"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// RawRow is one result row: ordered, case-normalized column names mapped
// to raw scalar values. A RawRow is never modified after construction.
type RawRow struct {
	columns []string
	values  []any
	index   map[string]int
}

// NewRawRow builds a row from parallel column and value slices. Values are
// normalized to raw scalars; duplicate column names are rejected.
func NewRawRow(columns []string, values []any) (RawRow, error) {
	if len(columns) != len(values) {
		return RawRow{}, fmt.Errorf("row has %d columns but %d values", len(columns), len(values))
	}
	r := RawRow{
		columns: make([]string, len(columns)),
		values:  make([]any, len(values)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		name := model.NormalizeColumn(col)
		if _, dup := r.index[name]; dup {
			return RawRow{}, fmt.Errorf("duplicate column %q in row", name)
		}
		v, err := coerce.Normalize(values[i])
		if err != nil {
			return RawRow{}, fmt.Errorf("column %q: %w", name, err)
		}
		r.columns[i] = name
		r.values[i] = v
		r.index[name] = i
	}
	return r, nil
}

// RowOf builds a row from alternating column names and values.
func RowOf(pairs ...any) (RawRow, error) {
	if len(pairs)%2 != 0 {
		return RawRow{}, fmt.Errorf("RowOf needs column/value pairs, got %d arguments", len(pairs))
	}
	columns := make([]string, 0, len(pairs)/2)
	values := make([]any, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return RawRow{}, fmt.Errorf("column name at position %d is %T, not string", i, pairs[i])
		}
		columns = append(columns, name)
		values = append(values, pairs[i+1])
	}
	return NewRawRow(columns, values)
}

// MustRow is like RowOf but panics on error.
func MustRow(pairs ...any) RawRow {
	r, err := RowOf(pairs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Columns returns the normalized column names in row order.
func (r RawRow) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Len returns the number of columns.
func (r RawRow) Len() int {
	return len(r.columns)
}

// Get looks up a column by name, normalizing it first.
func (r RawRow) Get(column string) (any, bool) {
	i, ok := r.index[model.NormalizeColumn(column)]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Has reports whether the row carries column.
func (r RawRow) Has(column string) bool {
	_, ok := r.index[model.NormalizeColumn(column)]
	return ok
}
