package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is an instance of a dynamic type. Values are kept in field order.
type Record struct {
	typ    *Type
	values []any
}

// Type returns the record's type.
func (r *Record) Type() *Type {
	return r.typ
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.values)
}

// At returns the i-th field and its value.
func (r *Record) At(i int) (Field, any) {
	return r.typ.fields[i], r.values[i]
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	f, ok := r.typ.Field(name)
	if !ok {
		return nil, false
	}
	return r.values[f.index[0]], true
}

// MarshalJSON renders the record as an object with fields in declaration order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.typ.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("marshal %s.%s: %w", r.typ.Name, f.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the record as Type{field:value, ...}.
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.typ.Name)
	sb.WriteByte('{')
	for i, f := range r.typ.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s:%v", f.Name, r.values[i])
	}
	sb.WriteByte('}')
	return sb.String()
}
