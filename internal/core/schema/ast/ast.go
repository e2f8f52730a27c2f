// Package ast holds the parse tree of mapping schema files.
package ast

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed schema file.
type File struct {
	Pos   lexer.Position
	Items []*Item `@@*`
}

// Item is a union of the top-level declarations.
type Item struct {
	Pos      lexer.Position
	Requires *Requires `  @@`
	Model    *Model    `| @@`
	Mapping  *Mapping  `| @@`
}

// Requires constrains the tool version able to load the file.
type Requires struct {
	Pos        lexer.Position
	Constraint string `"requires" @String`
}

// Model declares a materializable type.
type Model struct {
	Pos             lexer.Position
	Name            string            `"model" (@Ident | @Keyword)`
	Extends         string            `("extends" (@Ident | @Keyword))?`
	Fields          []*Field          `"{" @@*`
	BlockAttributes []*BlockAttribute `@@* "}"`
}

// BlockAttribute returns the block attributes named name.
func (m *Model) BlockAttribute(name string) []*BlockAttribute {
	var out []*BlockAttribute
	for _, b := range m.BlockAttributes {
		if b.Name == name {
			out = append(out, b)
		}
	}
	return out
}

// Field is one attribute of a model.
type Field struct {
	Pos        lexer.Position
	Name       string       `(@Ident | @Keyword)`
	Type       *TypeRef     `@@`
	Attributes []*Attribute `@@*`
}

// Attribute returns the field attribute named name, or nil.
func (f *Field) Attribute(name string) *Attribute {
	for _, a := range f.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// TypeRef names a scalar type, optionally nullable. Scalar names never
// collide with keywords, so only identifiers are accepted here and an
// optional column type cannot swallow the next result's keyword.
type TypeRef struct {
	Pos      lexer.Position
	Name     string `@Ident`
	Optional bool   `@"?"?`
}

// String renders the reference as written.
func (t *TypeRef) String() string {
	if t.Optional {
		return t.Name + "?"
	}
	return t.Name
}

// Attribute is a field attribute such as @id or @map("OID").
type Attribute struct {
	Pos  lexer.Position
	Name string   `"@" @Ident`
	Args []*Value `("(" (@@ ("," @@)*)? ")")?`
}

// BlockAttribute is a model attribute such as @@constructor([id, total]).
type BlockAttribute struct {
	Pos  lexer.Position
	Name string   `"@@" @Ident`
	Args []*Value `("(" (@@ ("," @@)*)? ")")?`
}

// Value is an attribute argument.
type Value struct {
	Pos   lexer.Position
	Str   *string  `  @String`
	List  []string `| "[" ((@Ident | @Keyword) ("," (@Ident | @Keyword))*)? "]"`
	Ident *string  `| @Ident`
}

// String renders the value as written.
func (v *Value) String() string {
	switch {
	case v.Str != nil:
		return fmt.Sprintf("%q", *v.Str)
	case v.Ident != nil:
		return *v.Ident
	default:
		return "[" + strings.Join(v.List, ", ") + "]"
	}
}

// Mapping declares a named mapping definition.
type Mapping struct {
	Pos     lexer.Position
	Name    string    `"mapping" @Ident "{"`
	Results []*Result `@@* "}"`
}

// Result is a union of the result spec declarations.
type Result struct {
	Pos       lexer.Position
	Entity    *Entity    `  @@`
	Column    *Column    `| @@`
	Construct *Construct `| @@`
}

// Entity declares an entity result.
type Entity struct {
	Pos           lexer.Position
	Type          string         `"entity" (@Ident | @Keyword)`
	Fields        []*FieldColumn `("{" (@@ ("," @@)*)? "}")?`
	Discriminator *string        `("discriminator" @String)?`
}

// FieldColumn maps an attribute to a column.
type FieldColumn struct {
	Pos    lexer.Position
	Field  string `(@Ident | @Keyword) "="`
	Column string `@String`
}

// Column declares a scalar column result.
type Column struct {
	Pos  lexer.Position
	Name string   `"column" @String`
	Type *TypeRef `@@?`
}

// Construct declares a constructor result.
type Construct struct {
	Pos  lexer.Position
	Type string      `"construct" (@Ident | @Keyword) "("`
	Args []*Argument `(@@ ("," @@)*)? ")"`
}

// Argument is one constructor argument.
type Argument struct {
	Pos    lexer.Position
	Column string   `@String`
	Type   *TypeRef `@@`
}

// Models returns the model declarations in order.
func (f *File) Models() []*Model {
	var out []*Model
	for _, item := range f.Items {
		if item.Model != nil {
			out = append(out, item.Model)
		}
	}
	return out
}

// Mappings returns the mapping declarations in order.
func (f *File) Mappings() []*Mapping {
	var out []*Mapping
	for _, item := range f.Items {
		if item.Mapping != nil {
			out = append(out, item.Mapping)
		}
	}
	return out
}

// Requires returns the requires declarations in order.
func (f *File) Requires() []*Requires {
	var out []*Requires
	for _, item := range f.Items {
		if item.Requires != nil {
			out = append(out, item.Requires)
		}
	}
	return out
}
