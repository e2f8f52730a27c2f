package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
)

var errorType = reflect.TypeFor[error]()

// Constructor builds an instance from an ordered list of coerced arguments.
type Constructor struct {
	// Params are the parameter types in call order.
	Params []coerce.Type

	name string
	call func(args []any) (any, error)
}

// Invoke calls the constructor. args must already be coerced to Params.
func (c *Constructor) Invoke(args []any) (any, error) {
	if len(args) != len(c.Params) {
		return nil, fmt.Errorf("%s: got %d arguments", c, len(args))
	}
	return c.call(args)
}

// String renders the constructor signature, e.g. PurchaseOrder(BigInt, Int).
func (c *Constructor) String() string {
	names := make([]string, len(c.Params))
	for i, p := range c.Params {
		names[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", c.name, strings.Join(names, ", "))
}

// Accepts reports whether c can be called with arguments of the declared
// types, in order and with identical arity.
func (c *Constructor) Accepts(declared []coerce.Type) bool {
	if len(declared) != len(c.Params) {
		return false
	}
	for i := range declared {
		if !c.Params[i].Accepts(declared[i]) {
			return false
		}
	}
	return true
}

// Func wraps a Go function as a constructor. fn must return a single value,
// optionally followed by an error; its parameter types determine Params.
func Func(fn any) (*Constructor, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("model: constructor must be a func, got %T", fn)
	}
	ft := rv.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("model: variadic constructor %s is not supported", ft)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, fmt.Errorf("model: constructor %s must return a value and an optional error", ft)
	}

	params := make([]coerce.Type, ft.NumIn())
	for i := range params {
		p, err := typeOf(ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("model: constructor %s parameter %d: %w", ft, i, err)
		}
		params[i] = p
	}

	name := ft.Out(0).String()
	return &Constructor{
		Params: params,
		name:   strings.TrimPrefix(name, "*"),
		call: func(args []any) (any, error) {
			in := make([]reflect.Value, len(args))
			for i, arg := range args {
				v := reflect.New(ft.In(i)).Elem()
				if err := assign(v, arg); err != nil {
					return nil, fmt.Errorf("argument %d: %w", i, err)
				}
				in[i] = v
			}
			out := rv.Call(in)
			if len(out) == 2 && !out[1].IsNil() {
				return nil, out[1].Interface().(error)
			}
			return out[0].Interface(), nil
		},
	}, nil
}

// MustFunc is like Func but panics on error.
func MustFunc(fn any) *Constructor {
	c, err := Func(fn)
	if err != nil {
		panic(err)
	}
	return c
}

// FieldConstructor returns a constructor that allocates t and assigns its
// arguments to the named fields in order.
func FieldConstructor(t *Type, fields ...string) (*Constructor, error) {
	params := make([]coerce.Type, len(fields))
	for i, name := range fields {
		f, ok := t.Field(name)
		if !ok {
			return nil, fmt.Errorf("type %s has no field %s", t.Name, name)
		}
		params[i] = f.Type
	}
	return &Constructor{
		Params: params,
		name:   t.Name,
		call: func(args []any) (any, error) {
			obj := t.New()
			for i, name := range fields {
				if err := t.Set(obj, name, args[i]); err != nil {
					return nil, err
				}
			}
			return obj, nil
		},
	}, nil
}
