// Package materializer turns column groups into typed values: scalars,
// identity-deduplicated entities and constructed objects.
package materializer

import (
	"bytes"
	"fmt"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/mapping/identity"
	"github.com/satishbabariya/rowmap/internal/core/mapping/split"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// Column extracts the value of a column result, converting it when the
// spec declares a type.
func Column(g split.Group) (any, error) {
	spec, ok := g.Spec.(domain.ColumnResult)
	if !ok {
		return nil, wrongSpec(g, domain.ScalarKind)
	}
	col := model.NormalizeColumn(spec.Column)
	v, ok := g.Value(col)
	if !ok {
		return nil, domain.NewMissingColumnError(g.Mapping, g.Index, col)
	}
	if !spec.Type.IsValid() {
		if b, isBytes := v.([]byte); isBytes {
			return bytes.Clone(b), nil
		}
		return v, nil
	}
	out, err := coerce.Coerce(v, spec.Type)
	if err != nil {
		return nil, domain.NewCoercionError(g.Mapping, g.Index, col, err)
	}
	return out, nil
}

// MaterializeEntity returns the instance an entity result describes. When
// the scope already holds an instance with the same identity key it is
// returned untouched; otherwise a new instance is allocated, populated from
// the columns present in the group and added to the scope.
func MaterializeEntity(g split.Group, scope *identity.Scope) (any, error) {
	spec, ok := g.Spec.(domain.EntityResult)
	if !ok {
		return nil, wrongSpec(g, domain.EntityKind)
	}

	target, err := selectType(g, spec)
	if err != nil {
		return nil, err
	}

	ids := target.IDFields()
	keyValues := make([]any, len(ids))
	coerced := make(map[string]any, len(ids))
	for i, f := range ids {
		col, _ := spec.ColumnFor(f)
		raw, ok := g.Value(col)
		if !ok {
			return nil, domain.NewMissingColumnError(g.Mapping, g.Index, col)
		}
		if raw == nil {
			return nil, domain.NewCoercionError(g.Mapping, g.Index, col,
				fmt.Errorf("%w: primary key %s.%s is null", coerce.ErrCoercion, target.Name, f.Name))
		}
		v, err := coerce.Coerce(raw, f.Type)
		if err != nil {
			return nil, domain.NewCoercionError(g.Mapping, g.Index, col, err)
		}
		keyValues[i] = v
		coerced[f.Name] = v
	}

	key, err := identity.NewKey(target, keyValues)
	if err != nil {
		return nil, domain.NewCoercionError(g.Mapping, g.Index, "", err)
	}
	if existing, ok := scope.Lookup(key); ok {
		return existing, nil
	}

	obj := target.New()
	for _, f := range target.Fields() {
		col, _ := spec.ColumnFor(&f)
		v, ok := coerced[f.Name]
		if !ok {
			raw, present := g.Value(col)
			if !present {
				continue
			}
			if v, err = coerce.Coerce(raw, f.Type); err != nil {
				return nil, domain.NewCoercionError(g.Mapping, g.Index, col, err)
			}
		}
		if err := target.Set(obj, f.Name, v); err != nil {
			return nil, domain.NewCoercionError(g.Mapping, g.Index, col, fmt.Errorf("%w: %v", coerce.ErrCoercion, err))
		}
	}

	stored, _ := scope.Insert(key, obj)
	return stored, nil
}

// selectType picks the concrete type to allocate: the subtype named by the
// discriminator column, or the mapped type itself.
func selectType(g split.Group, spec domain.EntityResult) (*model.Type, error) {
	if spec.Discriminator == "" {
		return spec.Type, nil
	}
	col := model.NormalizeColumn(spec.Discriminator)
	raw, ok := g.Value(col)
	if !ok {
		return nil, domain.NewMissingColumnError(g.Mapping, g.Index, col)
	}
	if raw == nil {
		return spec.Type, nil
	}
	value := fmt.Sprint(raw)
	if b, isBytes := raw.([]byte); isBytes {
		value = string(b)
	}
	t, ok := spec.Type.Subtype(value)
	if !ok {
		return nil, domain.NewCoercionError(g.Mapping, g.Index, col,
			fmt.Errorf("%w: discriminator value %q matches no type in the %s hierarchy", coerce.ErrCoercion, value, spec.Type.Name))
	}
	return t, nil
}

// Construct builds the object a constructor result describes and reports
// whether it is tracked. Tracked objects are deduplicated through scope
// like entities; detached objects never touch it.
func Construct(g split.Group, scope *identity.Scope) (any, domain.TrackingStatus, error) {
	spec, ok := g.Spec.(domain.ConstructorResult)
	if !ok {
		return nil, domain.Untracked, wrongSpec(g, domain.ConstructorKind)
	}

	ctor := spec.Constructor
	if ctor == nil {
		declared := spec.ArgumentTypes()
		if ctor, ok = spec.Type.Constructor(declared); !ok {
			return nil, domain.Untracked, domain.NewNoMatchingConstructorError(g.Mapping, g.Index, spec.Type.Name, declared)
		}
	}

	args := make([]any, len(spec.Arguments))
	for i, arg := range spec.Arguments {
		col := model.NormalizeColumn(arg.Column)
		raw, ok := g.Value(col)
		if !ok {
			return nil, domain.Untracked, domain.NewMissingColumnError(g.Mapping, g.Index, col)
		}
		v, err := coerce.Coerce(raw, arg.Type)
		if err != nil {
			return nil, domain.Untracked, domain.NewCoercionError(g.Mapping, g.Index, col, err)
		}
		args[i] = v
	}

	positions, tracked := spec.KeyArguments()
	if !tracked {
		obj, err := invoke(g, ctor, args)
		return obj, domain.Detached, err
	}

	keyValues := make([]any, len(positions))
	for i, p := range positions {
		keyValues[i] = args[p]
	}
	key, err := identity.NewKey(spec.Type, keyValues)
	if err != nil {
		return nil, domain.Untracked, domain.NewCoercionError(g.Mapping, g.Index,
			model.NormalizeColumn(spec.Arguments[positions[0]].Column), err)
	}
	if existing, ok := scope.Lookup(key); ok {
		return existing, domain.Tracked, nil
	}
	obj, err := invoke(g, ctor, args)
	if err != nil {
		return nil, domain.Untracked, err
	}
	stored, _ := scope.Insert(key, obj)
	return stored, domain.Tracked, nil
}

func invoke(g split.Group, ctor *model.Constructor, args []any) (any, error) {
	obj, err := ctor.Invoke(args)
	if err != nil {
		return nil, domain.NewConstructorFailedError(g.Mapping, g.Index, ctor.String(), err)
	}
	return obj, nil
}

func wrongSpec(g split.Group, want domain.SpecKind) error {
	return domain.NewInvalidMappingError(g.Mapping, g.Index, "expected a %s result, got %T", want, g.Spec)
}
