package model

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
)

// binding connects a Type to its runtime representation.
type binding interface {
	alloc(t *Type) any
	set(obj any, f *Field, v any) error
	get(obj any, f *Field) (any, error)
}

// Option configures a type built by Struct or Dynamic.
type Option func(*options)

type options struct {
	name          string
	parent        *Type
	discriminator string
}

// WithName overrides the type name. Struct types default to the Go type name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Extends makes the new type a subtype of parent.
func Extends(parent *Type) Option {
	return func(o *options) { o.parent = parent }
}

// WithDiscriminator sets the discriminator value selecting the new type.
func WithDiscriminator(value string) Option {
	return func(o *options) { o.discriminator = value }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// link attaches t below o.parent and checks discriminator uniqueness
// within the hierarchy.
func link(t *Type, o options) error {
	t.Discriminator = o.discriminator
	if o.parent == nil {
		return nil
	}
	if t.Discriminator != "" {
		if clash, ok := o.parent.Root().Subtype(t.Discriminator); ok {
			return fmt.Errorf("type %s: discriminator %q is already used by %s", t.Name, t.Discriminator, clash.Name)
		}
	}
	t.parent = o.parent
	o.parent.subtypes = append(o.parent.subtypes, t)
	return nil
}

// Dynamic builds a type whose instances are *Record values.
func Dynamic(name string, fields []Field, opts ...Option) (*Type, error) {
	o := buildOptions(opts)
	if o.name != "" {
		name = o.name
	}

	all := fields
	if o.parent != nil {
		if _, ok := o.parent.binding.(recordBinding); !ok {
			return nil, fmt.Errorf("type %s: dynamic types can only extend dynamic types", name)
		}
		all = append(o.parent.Fields(), fields...)
	}

	t, err := newType(name, all, recordBinding{})
	if err != nil {
		return nil, err
	}
	for i := range t.fields {
		t.fields[i].index = []int{i}
	}
	if err := link(t, o); err != nil {
		return nil, err
	}
	return t, nil
}

// Struct builds a type from the Go struct T. Exported fields become
// attributes named in lower camel case; a `db:"column,id"` tag overrides
// the column and marks key attributes, `db:"-"` skips a field.
func Struct[T any](opts ...Option) (*Type, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model: %s is not a struct", rt)
	}
	o := buildOptions(opts)
	name := o.name
	if name == "" {
		name = rt.Name()
	}

	var fields []Field
	for _, sf := range reflect.VisibleFields(rt) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("db")
		if tag == "-" {
			continue
		}
		typ, err := typeOf(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("model: %s.%s: %w", rt.Name(), sf.Name, err)
		}
		f := Field{Name: attributeName(sf.Name), Type: typ, index: sf.Index}
		parts := strings.Split(tag, ",")
		f.Column = parts[0]
		for _, opt := range parts[1:] {
			if strings.TrimSpace(opt) == "id" {
				f.IsID = true
			}
		}
		fields = append(fields, f)
	}

	t, err := newType(name, fields, structBinding{rt: rt})
	if err != nil {
		return nil, err
	}
	if o.parent != nil {
		if _, ok := o.parent.binding.(structBinding); !ok {
			return nil, fmt.Errorf("type %s: struct types can only extend struct types", name)
		}
		for _, pf := range o.parent.fields {
			cf, ok := t.Field(pf.Name)
			if !ok || cf.Type != pf.Type || cf.IsID != pf.IsID {
				return nil, fmt.Errorf("type %s must carry field %s of %s", name, pf.Name, o.parent.Name)
			}
		}
	}
	if err := link(t, o); err != nil {
		return nil, err
	}
	return t, nil
}

// MustStruct is like Struct but panics on error.
func MustStruct[T any](opts ...Option) *Type {
	t, err := Struct[T](opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// attributeName lower-cases the leading initialism of a Go field name:
// ID -> id, TotalPrice -> totalPrice, URLPath -> urlPath.
func attributeName(goName string) string {
	runes := []rune(goName)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return goName
	case n == len(runes):
		return strings.ToLower(goName)
	case n > 1:
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
)

// typeOf maps a Go type onto a semantic type. Pointers are nullable.
func typeOf(rt reflect.Type) (coerce.Type, error) {
	nullable := false
	if rt.Kind() == reflect.Ptr {
		nullable = true
		rt = rt.Elem()
	}
	var k coerce.Kind
	switch {
	case rt == timeType:
		k = coerce.DateTime
	case rt == decimalType:
		k = coerce.Decimal
	case rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8:
		k = coerce.Bytes
	default:
		switch rt.Kind() {
		case reflect.Bool:
			k = coerce.Boolean
		case reflect.Int16:
			k = coerce.SmallInt
		case reflect.Int32:
			k = coerce.Int
		case reflect.Int, reflect.Int64:
			k = coerce.BigInt
		case reflect.Float32, reflect.Float64:
			k = coerce.Float
		case reflect.String:
			k = coerce.String
		default:
			return coerce.Type{}, fmt.Errorf("unsupported Go type %s", rt)
		}
	}
	return coerce.Type{Kind: k, Nullable: nullable}, nil
}

// assign stores a coerced value into dst, converting between Go types of
// the same kind family (int64 -> int, float64 -> float32).
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if dst.Kind() == reflect.Ptr {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if sameFamily(src.Kind(), dst.Kind()) && src.Type().ConvertibleTo(dst.Type()) {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
}

func sameFamily(a, b reflect.Kind) bool {
	family := func(k reflect.Kind) int {
		switch k {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return 1
		case reflect.Float32, reflect.Float64:
			return 2
		case reflect.String:
			return 3
		case reflect.Bool:
			return 4
		default:
			return 0
		}
	}
	fa := family(a)
	return fa != 0 && fa == family(b)
}

type structBinding struct {
	rt reflect.Type
}

func (b structBinding) alloc(*Type) any {
	return reflect.New(b.rt).Interface()
}

func (b structBinding) field(obj any, f *Field) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || !rv.Elem().Type().AssignableTo(b.rt) {
		return reflect.Value{}, fmt.Errorf("expected *%s, got %T", b.rt, obj)
	}
	return rv.Elem().FieldByIndexErr(f.index)
}

func (b structBinding) set(obj any, f *Field, v any) error {
	fv, err := b.field(obj, f)
	if err != nil {
		return err
	}
	return assign(fv, v)
}

func (b structBinding) get(obj any, f *Field) (any, error) {
	fv, err := b.field(obj, f)
	if err != nil {
		return nil, err
	}
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil, nil
		}
		fv = fv.Elem()
	}
	return fv.Interface(), nil
}

type recordBinding struct{}

func (recordBinding) alloc(t *Type) any {
	r := &Record{typ: t, values: make([]any, len(t.fields))}
	for i, f := range t.fields {
		r.values[i] = zeroValue(f.Type)
	}
	return r
}

func (recordBinding) record(obj any) (*Record, error) {
	r, ok := obj.(*Record)
	if !ok || r == nil {
		return nil, fmt.Errorf("expected *model.Record, got %T", obj)
	}
	return r, nil
}

func (b recordBinding) set(obj any, f *Field, v any) error {
	r, err := b.record(obj)
	if err != nil {
		return err
	}
	r.values[f.index[0]] = v
	return nil
}

func (b recordBinding) get(obj any, f *Field) (any, error) {
	r, err := b.record(obj)
	if err != nil {
		return nil, err
	}
	return r.values[f.index[0]], nil
}

// zeroValue is the default a record field holds until it is populated.
func zeroValue(t coerce.Type) any {
	if t.Nullable {
		return nil
	}
	switch t.Kind {
	case coerce.Boolean:
		return false
	case coerce.SmallInt:
		return int16(0)
	case coerce.Int:
		return int32(0)
	case coerce.BigInt:
		return int64(0)
	case coerce.Float:
		return float64(0)
	case coerce.Decimal:
		return decimal.Zero
	case coerce.String:
		return ""
	case coerce.DateTime:
		return time.Time{}
	default:
		return nil
	}
}
