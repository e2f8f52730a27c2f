// Package registry stores named mapping definitions.
package registry

import (
	"sort"
	"sync"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// Registry is a name-indexed set of validated mapping definitions.
// Registration is expected during setup; lookups are safe for concurrent
// use afterwards.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*domain.MappingDefinition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{definitions: make(map[string]*domain.MappingDefinition)}
}

// Register validates def and stores a private copy of it under its name.
// Constructor results are resolved to a concrete constructor here, so a
// registered definition never fails constructor lookup at row time.
func (r *Registry) Register(def *domain.MappingDefinition) error {
	if def == nil {
		return domain.NewInvalidMappingError("", -1, "definition is nil")
	}
	stored := def.Clone()
	if err := Validate(stored); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[stored.Name]; exists {
		return domain.NewDuplicateNameError(stored.Name)
	}
	r.definitions[stored.Name] = stored
	return nil
}

// Lookup returns a copy of the definition registered under name.
func (r *Registry) Lookup(name string) (*domain.MappingDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[name]
	if !ok {
		return nil, domain.NewUnknownMappingError(name)
	}
	return def.Clone(), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.definitions[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// Validate checks def structurally and resolves the constructor of every
// constructor result in place.
func Validate(def *domain.MappingDefinition) error {
	if def.Name == "" {
		return domain.NewInvalidMappingError("", -1, "mapping name is required")
	}
	if len(def.Results) == 0 {
		return domain.NewInvalidMappingError(def.Name, -1, "mapping has no result specs")
	}

	constructors := 0
	for i, spec := range def.Results {
		var err error
		switch s := spec.(type) {
		case domain.EntityResult:
			err = validateEntity(def.Name, i, s)
		case domain.ColumnResult:
			err = validateColumn(def.Name, i, s)
		case domain.ConstructorResult:
			constructors++
			s, err = resolveConstructor(def.Name, i, s)
			def.Results[i] = s
		default:
			err = domain.NewInvalidMappingError(def.Name, i, "unsupported result spec %T", spec)
		}
		if err != nil {
			return err
		}
	}

	if constructors > 0 && len(def.Results) > 1 {
		return domain.NewInvalidMappingError(def.Name, -1,
			"a constructor result must be the only result spec of a mapping")
	}
	return nil
}

func validateEntity(mapping string, i int, s domain.EntityResult) error {
	if s.Type == nil {
		return domain.NewInvalidMappingError(mapping, i, "entity result has no target type")
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, fc := range s.Fields {
		if _, ok := fieldInHierarchy(s.Type, fc.Field); !ok {
			return domain.NewInvalidMappingError(mapping, i, "type %s has no field %s", s.Type.Name, fc.Field)
		}
		if seen[fc.Field] {
			return domain.NewInvalidMappingError(mapping, i, "field %s is mapped twice", fc.Field)
		}
		seen[fc.Field] = true
		if model.NormalizeColumn(fc.Column) == "" {
			return domain.NewInvalidMappingError(mapping, i, "field %s is mapped to an empty column", fc.Field)
		}
	}

	ids := s.Type.IDFields()
	if len(ids) == 0 {
		return domain.NewInvalidMappingError(mapping, i, "type %s has no primary key field", s.Type.Name)
	}
	for _, id := range ids {
		if col, _ := s.ColumnFor(id); col == "" {
			return domain.NewInvalidMappingError(mapping, i, "primary key field %s has no column", id.Name)
		}
	}

	if s.Discriminator != "" && len(s.Type.Subtypes()) == 0 && s.Type.Discriminator == "" {
		return domain.NewInvalidMappingError(mapping, i, "type %s has no discriminated subtypes", s.Type.Name)
	}
	return nil
}

// fieldInHierarchy finds name on t or on any of its subtypes, since a
// discriminated entity may set fields only its subtypes declare.
func fieldInHierarchy(t *model.Type, name string) (*model.Field, bool) {
	if f, ok := t.Field(name); ok {
		return f, true
	}
	for _, sub := range t.Subtypes() {
		if f, ok := fieldInHierarchy(sub, name); ok {
			return f, true
		}
	}
	return nil, false
}

func validateColumn(mapping string, i int, s domain.ColumnResult) error {
	if model.NormalizeColumn(s.Column) == "" {
		return domain.NewInvalidMappingError(mapping, i, "column result has no column name")
	}
	if !s.Type.IsValid() && s.Type != (coerce.Type{}) {
		return domain.NewInvalidMappingError(mapping, i, "column %s has an invalid type", s.Column)
	}
	return nil
}

func resolveConstructor(mapping string, i int, s domain.ConstructorResult) (domain.ConstructorResult, error) {
	if s.Type == nil {
		return s, domain.NewInvalidMappingError(mapping, i, "constructor result has no target type")
	}
	for j, arg := range s.Arguments {
		if model.NormalizeColumn(arg.Column) == "" {
			return s, domain.NewInvalidMappingError(mapping, i, "argument %d has no column", j+1)
		}
		if !arg.Type.IsValid() {
			return s, domain.NewInvalidMappingError(mapping, i, "argument %d (%s) has no declared type", j+1, arg.Column)
		}
	}

	declared := s.ArgumentTypes()
	if s.Constructor != nil {
		if !s.Constructor.Accepts(declared) {
			return s, domain.NewNoMatchingConstructorError(mapping, i, s.Type.Name, declared)
		}
		return s, nil
	}
	ctor, ok := s.Type.Constructor(declared)
	if !ok {
		return s, domain.NewNoMatchingConstructorError(mapping, i, s.Type.Name, declared)
	}
	s.Constructor = ctor
	return s, nil
}
