// Package domain defines mapping definitions, raw rows and result tuples.
package domain

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// SpecKind identifies the variant of a ResultSpec.
type SpecKind int

const (
	// ScalarKind is reported by ColumnResult.
	ScalarKind SpecKind = iota + 1
	// EntityKind is reported by EntityResult.
	EntityKind
	// ConstructorKind is reported by ConstructorResult.
	ConstructorKind
)

// String returns a readable name for the kind.
func (k SpecKind) String() string {
	switch k {
	case ScalarKind:
		return "column"
	case EntityKind:
		return "entity"
	case ConstructorKind:
		return "constructor"
	default:
		return fmt.Sprintf("SpecKind(%d)", int(k))
	}
}

// ResultSpec is one element of a mapping definition. The set of
// implementations is closed: EntityResult, ColumnResult and
// ConstructorResult.
type ResultSpec interface {
	Kind() SpecKind
	String() string
	clone() ResultSpec
}

// FieldColumn maps an attribute to a result column.
type FieldColumn struct {
	Field  string
	Column string
}

// EntityResult materializes an instance of Type from the row.
type EntityResult struct {
	Type *model.Type
	// Fields lists explicitly mapped attributes. Attributes not listed
	// read the type's default column.
	Fields []FieldColumn
	// Discriminator optionally names a column whose value selects the
	// subtype of Type to allocate.
	Discriminator string
}

// Kind implements ResultSpec.
func (EntityResult) Kind() SpecKind { return EntityKind }

// String implements ResultSpec.
func (e EntityResult) String() string {
	parts := make([]string, len(e.Fields))
	for i, fc := range e.Fields {
		parts[i] = fmt.Sprintf("%s=%q", fc.Field, fc.Column)
	}
	s := fmt.Sprintf("entity %s {%s}", typeName(e.Type), strings.Join(parts, ", "))
	if e.Discriminator != "" {
		s += fmt.Sprintf(" discriminator %q", e.Discriminator)
	}
	return s
}

func (e EntityResult) clone() ResultSpec {
	e.Fields = append([]FieldColumn(nil), e.Fields...)
	return e
}

// ColumnFor returns the normalized column that feeds field and whether it
// was mapped explicitly.
func (e EntityResult) ColumnFor(field *model.Field) (string, bool) {
	for _, fc := range e.Fields {
		if fc.Field == field.Name {
			return model.NormalizeColumn(fc.Column), true
		}
	}
	return field.Column, false
}

// ColumnResult extracts one column as a scalar.
type ColumnResult struct {
	Column string
	// Type is the optional explicit conversion. The zero Type leaves the
	// raw value untouched.
	Type coerce.Type
}

// Kind implements ResultSpec.
func (ColumnResult) Kind() SpecKind { return ScalarKind }

// String implements ResultSpec.
func (c ColumnResult) String() string {
	if c.Type.IsValid() {
		return fmt.Sprintf("column %q %s", c.Column, c.Type)
	}
	return fmt.Sprintf("column %q", c.Column)
}

func (c ColumnResult) clone() ResultSpec { return c }

// Argument is one constructor argument: a column and the type it is
// coerced into before the call.
type Argument struct {
	Column string
	Type   coerce.Type
}

// ConstructorResult builds Type by calling one of its constructors.
type ConstructorResult struct {
	Type      *model.Type
	Arguments []Argument
	// Constructor is resolved from Arguments when the definition is
	// registered. When nil it is resolved on first use.
	Constructor *model.Constructor
}

// Kind implements ResultSpec.
func (ConstructorResult) Kind() SpecKind { return ConstructorKind }

// String implements ResultSpec.
func (c ConstructorResult) String() string {
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = fmt.Sprintf("%q %s", a.Column, a.Type)
	}
	return fmt.Sprintf("construct %s(%s)", typeName(c.Type), strings.Join(parts, ", "))
}

func (c ConstructorResult) clone() ResultSpec {
	c.Arguments = append([]Argument(nil), c.Arguments...)
	return c
}

// ArgumentTypes returns the declared argument types in order.
func (c ConstructorResult) ArgumentTypes() []coerce.Type {
	types := make([]coerce.Type, len(c.Arguments))
	for i, a := range c.Arguments {
		types[i] = a.Type
	}
	return types
}

// KeyArguments returns, for each primary-key attribute of Type, the index
// of the argument reading that attribute's column. It reports false when
// any key column is absent from the argument list, which makes the
// constructed value a detached projection.
func (c ConstructorResult) KeyArguments() ([]int, bool) {
	if c.Type == nil {
		return nil, false
	}
	ids := c.Type.IDFields()
	if len(ids) == 0 {
		return nil, false
	}
	positions := make([]int, 0, len(ids))
	for _, id := range ids {
		found := -1
		for i, a := range c.Arguments {
			if model.NormalizeColumn(a.Column) == id.Column {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		positions = append(positions, found)
	}
	return positions, true
}

// Status returns the tracking status every value built by c carries.
func (c ConstructorResult) Status() TrackingStatus {
	if _, ok := c.KeyArguments(); ok {
		return Tracked
	}
	return Detached
}

func typeName(t *model.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// MappingDefinition is a named, ordered list of result specs.
type MappingDefinition struct {
	Name    string
	Results []ResultSpec
}

// NewMappingDefinition builds a definition from its specs.
func NewMappingDefinition(name string, results ...ResultSpec) *MappingDefinition {
	return &MappingDefinition{Name: name, Results: results}
}

// Clone returns a deep copy, so a registered definition cannot be changed
// through the value the caller still holds.
func (d *MappingDefinition) Clone() *MappingDefinition {
	out := &MappingDefinition{Name: d.Name, Results: make([]ResultSpec, len(d.Results))}
	for i, r := range d.Results {
		if r != nil {
			out.Results[i] = r.clone()
		}
	}
	return out
}

// IsConstructor reports whether d builds a constructed object rather than
// an entity/column tuple.
func (d *MappingDefinition) IsConstructor() bool {
	for _, r := range d.Results {
		if r != nil && r.Kind() == ConstructorKind {
			return true
		}
	}
	return false
}
