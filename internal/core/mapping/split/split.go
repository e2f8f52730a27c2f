// Package split divides a raw row into the column groups read by each
// result spec of a mapping definition.
package split

import (
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// Group is the subset of a row one result spec reads.
type Group struct {
	Mapping string
	Index   int
	Spec    domain.ResultSpec

	columns map[string]any
}

// NewGroup builds a group from already-normalized column values.
func NewGroup(mapping string, index int, spec domain.ResultSpec, columns map[string]any) Group {
	return Group{Mapping: mapping, Index: index, Spec: spec, columns: columns}
}

// Value returns the value of a column in the group.
func (g Group) Value(column string) (any, bool) {
	v, ok := g.columns[model.NormalizeColumn(column)]
	return v, ok
}

// Len returns the number of columns collected.
func (g Group) Len() int {
	return len(g.columns)
}

// Columns lists the columns a spec reads. Required columns must be present
// in every row; optional ones are collected when the row carries them.
type Columns struct {
	Required []string
	Optional []string
}

// ColumnsOf returns the normalized columns referenced by spec.
func ColumnsOf(spec domain.ResultSpec) Columns {
	var c Columns
	switch s := spec.(type) {
	case domain.ColumnResult:
		c.Required = []string{model.NormalizeColumn(s.Column)}
	case domain.ConstructorResult:
		for _, arg := range s.Arguments {
			c.Required = appendUnique(c.Required, model.NormalizeColumn(arg.Column))
		}
	case domain.EntityResult:
		if s.Type == nil {
			return c
		}
		for _, f := range hierarchyFields(s.Type) {
			col, explicit := s.ColumnFor(&f)
			if f.IsID || explicit {
				c.Required = appendUnique(c.Required, col)
			} else {
				c.Optional = appendUnique(c.Optional, col)
			}
		}
		if s.Discriminator != "" {
			c.Required = appendUnique(c.Required, model.NormalizeColumn(s.Discriminator))
		}
		c.Optional = removeAll(c.Optional, c.Required)
	}
	return c
}

// Split collects, for each spec of def in order, the columns it references
// from row. A required column absent from row fails with a missing column
// error naming the result index and the column. Unreferenced columns are ignored
// and several specs may read the same column.
func Split(row domain.RawRow, def *domain.MappingDefinition) ([]Group, error) {
	groups := make([]Group, 0, len(def.Results))
	for i, spec := range def.Results {
		cols := ColumnsOf(spec)
		values := make(map[string]any, len(cols.Required)+len(cols.Optional))
		for _, col := range cols.Required {
			v, ok := row.Get(col)
			if !ok {
				return nil, domain.NewMissingColumnError(def.Name, i, col)
			}
			values[col] = v
		}
		for _, col := range cols.Optional {
			if v, ok := row.Get(col); ok {
				values[col] = v
			}
		}
		groups = append(groups, NewGroup(def.Name, i, spec, values))
	}
	return groups, nil
}

// hierarchyFields returns the fields of t followed by the fields its
// subtypes add, each attribute name once.
func hierarchyFields(t *model.Type) []model.Field {
	seen := make(map[string]bool)
	var out []model.Field
	var walk func(*model.Type)
	walk = func(cur *model.Type) {
		for _, f := range cur.Fields() {
			if !seen[f.Name] {
				seen[f.Name] = true
				out = append(out, f)
			}
		}
		for _, sub := range cur.Subtypes() {
			walk(sub)
		}
	}
	walk(t)
	return out
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func removeAll(list, drop []string) []string {
	out := list[:0]
	for _, s := range list {
		keep := true
		for _, d := range drop {
			if s == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, s)
		}
	}
	return out
}
