// Package model describes the application types a result row can be
// materialized into: their fields, key attributes, inheritance and
// constructors.
package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
)

// ErrUnknownType is returned when a type name is not in the catalog.
var ErrUnknownType = errors.New("rowmap: unknown type")

// Field is one attribute of a Type.
type Field struct {
	// Name is the attribute name.
	Name string
	// Column is the default result column of the attribute. It defaults
	// to Name and is always stored normalized.
	Column string
	// Type is the semantic type of the attribute.
	Type coerce.Type
	// IsID marks a primary-key attribute.
	IsID bool

	index []int
}

// NormalizeColumn returns the canonical spelling of a column name.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Type is a materializable application type.
type Type struct {
	Name string
	// Discriminator is the value a discriminator column carries for rows
	// of this type. Empty for types that are never selected that way.
	Discriminator string

	fields       []Field
	parent       *Type
	subtypes     []*Type
	constructors []*Constructor
	binding      binding
}

func newType(name string, fields []Field, b binding) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("type name is required")
	}
	t := &Type{Name: name, binding: b}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("type %s: field name is required", name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("type %s: duplicate field %s", name, f.Name)
		}
		seen[f.Name] = true
		if !f.Type.IsValid() {
			return nil, fmt.Errorf("type %s: field %s has no scalar type", name, f.Name)
		}
		if f.Column == "" {
			f.Column = f.Name
		}
		f.Column = NormalizeColumn(f.Column)
		t.fields = append(t.fields, f)
	}
	return t, nil
}

// Fields returns the attributes of t in declaration order, inherited
// attributes first.
func (t *Type) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Field looks up an attribute by name.
func (t *Type) Field(name string) (*Field, bool) {
	for i := range t.fields {
		if t.fields[i].Name == name {
			return &t.fields[i], true
		}
	}
	return nil, false
}

// IDFields returns the primary-key attributes of t.
func (t *Type) IDFields() []*Field {
	var ids []*Field
	for i := range t.fields {
		if t.fields[i].IsID {
			ids = append(ids, &t.fields[i])
		}
	}
	return ids
}

// Parent returns the type t extends, or nil.
func (t *Type) Parent() *Type {
	return t.parent
}

// Root returns the top of t's inheritance chain. Identity is tracked per
// root so a subtype instance and its parent share one key space.
func (t *Type) Root() *Type {
	root := t
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Subtypes returns the types directly extending t.
func (t *Type) Subtypes() []*Type {
	return append([]*Type(nil), t.subtypes...)
}

// Subtype returns the type in t's hierarchy, t included, whose
// discriminator equals value.
func (t *Type) Subtype(value string) (*Type, bool) {
	if t.Discriminator == value {
		return t, true
	}
	for _, sub := range t.subtypes {
		if found, ok := sub.Subtype(value); ok {
			return found, true
		}
	}
	return nil, false
}

// Is reports whether t is other or one of its subtypes.
func (t *Type) Is(other *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// New allocates a zero instance of t.
func (t *Type) New() any {
	return t.binding.alloc(t)
}

// Set assigns a coerced value to the named attribute of obj.
func (t *Type) Set(obj any, field string, v any) error {
	f, ok := t.Field(field)
	if !ok {
		return fmt.Errorf("type %s has no field %s", t.Name, field)
	}
	if err := t.binding.set(obj, f, v); err != nil {
		return fmt.Errorf("set %s.%s: %w", t.Name, f.Name, err)
	}
	return nil
}

// Get reads the named attribute of obj.
func (t *Type) Get(obj any, field string) (any, error) {
	f, ok := t.Field(field)
	if !ok {
		return nil, fmt.Errorf("type %s has no field %s", t.Name, field)
	}
	return t.binding.get(obj, f)
}

// Constructors returns the constructors registered for t.
func (t *Type) Constructors() []*Constructor {
	out := make([]*Constructor, len(t.constructors))
	copy(out, t.constructors)
	return out
}

// AddConstructor registers c. Two constructors with the same parameter
// sequence are rejected.
func (t *Type) AddConstructor(c *Constructor) error {
	for _, existing := range t.constructors {
		if sameParams(existing.Params, c.Params) {
			return fmt.Errorf("type %s already has a constructor %s", t.Name, existing)
		}
	}
	t.constructors = append(t.constructors, c)
	return nil
}

// Constructor returns the constructor whose parameters accept the
// declared argument types, in order and with identical arity.
func (t *Type) Constructor(declared []coerce.Type) (*Constructor, bool) {
	for _, c := range t.constructors {
		if c.Accepts(declared) {
			return c, true
		}
	}
	return nil, false
}

func sameParams(a, b []coerce.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String returns the type name.
func (t *Type) String() string {
	return t.Name
}

// Catalog is a name-indexed set of types. It is populated during setup and
// safe for concurrent reads afterwards.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*Type)}
}

// Add registers t under its name.
func (c *Catalog) Add(t *Type) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.types[t.Name]; exists {
		return fmt.Errorf("type %s is already registered", t.Name)
	}
	c.types[t.Name] = t
	return nil
}

// Get retrieves a type by name.
func (c *Catalog) Get(name string) (*Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return t, nil
}

// Names returns the registered type names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
