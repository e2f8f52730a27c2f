// Package coerce converts raw scalar values read from a result row into
// semantic column types.
package coerce

import (
	"fmt"
	"strings"
)

// Kind is a semantic scalar type.
type Kind int

const (
	// Invalid is the zero Kind. It never matches a concrete type.
	Invalid Kind = iota
	Boolean
	SmallInt
	Int
	BigInt
	Float
	Decimal
	String
	DateTime
	Bytes
)

var kindNames = map[Kind]string{
	Boolean:  "Boolean",
	SmallInt: "SmallInt",
	Int:      "Int",
	BigInt:   "BigInt",
	Float:    "Float",
	Decimal:  "Decimal",
	String:   "String",
	DateTime: "DateTime",
	Bytes:    "Bytes",
}

// String returns the schema name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a schema type name such as "BigInt".
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return Invalid, false
}

// category groups kinds between which implicit coercion is allowed.
type category int

const (
	catNone category = iota
	catNumeric
	catText
	catBoolean
	catTemporal
	catBinary
)

func (k Kind) category() category {
	switch k {
	case SmallInt, Int, BigInt, Float, Decimal:
		return catNumeric
	case String:
		return catText
	case Boolean:
		return catBoolean
	case DateTime:
		return catTemporal
	case Bytes:
		return catBinary
	default:
		return catNone
	}
}

// IsNumeric reports whether k is one of the integer, float or decimal kinds.
func (k Kind) IsNumeric() bool {
	return k.category() == catNumeric
}

// IsInteger reports whether k is an integer kind.
func (k Kind) IsInteger() bool {
	return k == SmallInt || k == Int || k == BigInt
}

// IsPrimitive reports whether a non-nullable k has no absence marker,
// so a null raw value cannot be coerced into it.
func (k Kind) IsPrimitive() bool {
	switch k {
	case Boolean, SmallInt, Int, BigInt, Float:
		return true
	default:
		return false
	}
}

// Compatible reports whether values of kind from may be coerced into kind
// to. It is a structural check used when mappings are registered.
func Compatible(from, to Kind) bool {
	fc, tc := from.category(), to.category()
	if fc == catNone || tc == catNone {
		return false
	}
	return fc == tc
}

// Type is a Kind plus nullability.
type Type struct {
	Kind     Kind
	Nullable bool
}

// Of returns the non-nullable type of k.
func Of(k Kind) Type {
	return Type{Kind: k}
}

// Optional returns the nullable type of k.
func Optional(k Kind) Type {
	return Type{Kind: k, Nullable: true}
}

// String renders the type the way the schema language spells it.
func (t Type) String() string {
	if t.Nullable {
		return t.Kind.String() + "?"
	}
	return t.Kind.String()
}

// IsValid reports whether t names a concrete kind.
func (t Type) IsValid() bool {
	_, ok := kindNames[t.Kind]
	return ok
}

// Accepts reports whether a value coerced to declared can be handed to a
// parameter of type t without further conversion.
func (t Type) Accepts(declared Type) bool {
	if t.Kind != declared.Kind {
		return false
	}
	return t.Nullable || !declared.Nullable || !t.Kind.IsPrimitive()
}

// ParseType parses names like "Int" or "Decimal?".
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	nullable := strings.HasSuffix(s, "?")
	k, ok := ParseKind(strings.TrimSuffix(s, "?"))
	if !ok {
		return Type{}, fmt.Errorf("unknown scalar type %q", s)
	}
	return Type{Kind: k, Nullable: nullable}, nil
}
