// Package identity implements the per-session identity scope that makes
// one logical record map to one object instance.
package identity

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/model"
)

// Key identifies a logical record: the root of its type hierarchy and the
// canonical form of its primary-key values.
type Key struct {
	Type  string
	Value string
}

// String renders the key as Type(value).
func (k Key) String() string {
	return k.Type + "(" + k.Value + ")"
}

// NewKey builds the identity key of t for the given primary-key values.
// Values of the same logical key produce the same Key regardless of the
// integer width they were coerced to.
func NewKey(t *model.Type, values []any) (Key, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			return Key{}, fmt.Errorf("%w: null primary key value for %s", coerce.ErrCoercion, t.Name)
		}
		s, err := canonical(v)
		if err != nil {
			return Key{}, err
		}
		parts[i] = s
	}
	return Key{Type: t.Root().Name, Value: strings.Join(parts, "\x1f")}, nil
}

func canonical(v any) (string, error) {
	raw, err := coerce.Normalize(v)
	if err != nil {
		return "", err
	}
	switch x := raw.(type) {
	case int64:
		return fmt.Sprintf("i:%d", x), nil
	case float64:
		if x == 0 {
			x = 0 // folds -0 into +0
		}
		return fmt.Sprintf("f:%g", x), nil
	case decimal.Decimal:
		return "d:" + x.String(), nil
	case string:
		return "s:" + x, nil
	case bool:
		return fmt.Sprintf("b:%t", x), nil
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano), nil
	case []byte:
		return "x:" + hex.EncodeToString(x), nil
	}
	return "", fmt.Errorf("%w: unsupported primary key value %T", coerce.ErrCoercion, v)
}

// Scope maps identity keys to materialized instances. A scope belongs to
// one session and is not safe for concurrent use.
type Scope struct {
	entries map[Key]any
	order   []Key

	// journal holds the keys inserted since Begin.
	journal   []Key
	recording bool
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{entries: make(map[Key]any)}
}

// Lookup returns the instance stored under k.
func (s *Scope) Lookup(k Key) (any, bool) {
	obj, ok := s.entries[k]
	return obj, ok
}

// Insert stores obj under k unless an instance is already present, in which
// case the existing instance is returned and obj is discarded.
func (s *Scope) Insert(k Key, obj any) (any, bool) {
	if existing, ok := s.entries[k]; ok {
		return existing, false
	}
	s.entries[k] = obj
	s.order = append(s.order, k)
	if s.recording {
		s.journal = append(s.journal, k)
	}
	return obj, true
}

// Len returns the number of instances in the scope.
func (s *Scope) Len() int {
	return len(s.entries)
}

// Keys returns the stored keys in insertion order.
func (s *Scope) Keys() []Key {
	return append([]Key(nil), s.order...)
}

// Begin starts journaling insertions so they can be undone by Rollback.
func (s *Scope) Begin() {
	s.journal = s.journal[:0]
	s.recording = true
}

// Commit keeps every insertion since Begin.
func (s *Scope) Commit() {
	s.journal = s.journal[:0]
	s.recording = false
}

// Rollback removes every instance inserted since Begin and returns how
// many were removed.
func (s *Scope) Rollback() int {
	n := len(s.journal)
	for _, k := range s.journal {
		delete(s.entries, k)
	}
	if n > 0 {
		s.order = s.order[:len(s.order)-n]
	}
	s.journal = s.journal[:0]
	s.recording = false
	return n
}

// Clear empties the scope.
func (s *Scope) Clear() {
	clear(s.entries)
	s.order = nil
	s.journal = s.journal[:0]
	s.recording = false
}
