package coerce

import (
	"bytes"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Integer bounds as decimals, used for range checks on decimal input.
var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// KindOf returns the kind of a raw scalar. Null and unsupported values
// report false.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case bool:
		return Boolean, true
	case int16:
		return SmallInt, true
	case int32:
		return Int, true
	case int64:
		return BigInt, true
	case float64:
		return Float, true
	case decimal.Decimal:
		return Decimal, true
	case string:
		return String, true
	case time.Time:
		return DateTime, true
	case []byte:
		return Bytes, true
	default:
		return Invalid, false
	}
}

// Normalize converts a Go value into one of the raw scalar representations
// carried by a row: int64, float64, decimal.Decimal, string, bool,
// time.Time, []byte or nil. Coerced values normalize back to the raw form
// they were produced from.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64, float64, decimal.Decimal, string, bool, time.Time:
		return x, nil
	case []byte:
		return bytes.Clone(x), nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, newError(x, Invalid, Of(BigInt), "unsigned value overflows BigInt")
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, newError(x, Invalid, Of(BigInt), "unsigned value overflows BigInt")
		}
		return int64(x), nil
	case float32:
		return float64(x), nil
	case *decimal.Decimal:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	default:
		return nil, newError(v, Invalid, Type{}, "unsupported raw value type")
	}
}

// Coerce converts raw into the target type.
//
// A null raw value yields nil for every target except non-nullable
// primitives. Decimal and float values coerced into an integer kind are
// truncated toward zero; values outside the target range fail.
func Coerce(raw any, target Type) (any, error) {
	if raw == nil {
		if target.Kind.IsPrimitive() && !target.Nullable {
			return nil, newError(nil, Invalid, target, "null value for non-nullable type")
		}
		return nil, nil
	}
	from, ok := KindOf(raw)
	if !ok {
		norm, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		return Coerce(norm, target)
	}
	if !Compatible(from, target.Kind) {
		return nil, newError(raw, from, target, "incompatible types")
	}

	switch target.Kind {
	case SmallInt:
		n, err := toInt64(raw, from, target)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt16 || n > math.MaxInt16 {
			return nil, newError(raw, from, target, "value out of range")
		}
		return int16(n), nil
	case Int:
		n, err := toInt64(raw, from, target)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, newError(raw, from, target, "value out of range")
		}
		return int32(n), nil
	case BigInt:
		return toInt64(raw, from, target)
	case Float:
		return toFloat64(raw, from, target)
	case Decimal:
		return toDecimal(raw, from, target)
	case Bytes:
		return bytes.Clone(raw.([]byte)), nil
	default:
		// same-category passthrough: String, Boolean, DateTime
		return raw, nil
	}
}

func toInt64(raw any, from Kind, target Type) (int64, error) {
	switch x := raw.(type) {
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, newError(raw, from, target, "not a finite number")
		}
		t := math.Trunc(x)
		if t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, newError(raw, from, target, "value out of range")
		}
		return int64(t), nil
	case decimal.Decimal:
		t := x.Truncate(0)
		if t.LessThan(minInt64) || t.GreaterThan(maxInt64) {
			return 0, newError(raw, from, target, "value out of range")
		}
		return t.IntPart(), nil
	}
	return 0, newError(raw, from, target, "incompatible types")
}

func toFloat64(raw any, from Kind, target Type) (float64, error) {
	switch x := raw.(type) {
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		f := float64(x)
		if f >= math.MaxInt64 || int64(f) != x {
			return 0, newError(raw, from, target, "value loses precision")
		}
		return f, nil
	case float64:
		return x, nil
	case decimal.Decimal:
		f, _ := x.Float64()
		if math.IsInf(f, 0) {
			return 0, newError(raw, from, target, "value out of range")
		}
		// The shortest decimal form of f must read back as x.
		if !decimal.NewFromFloat(f).Equal(x) {
			return 0, newError(raw, from, target, "value loses precision")
		}
		return f, nil
	}
	return 0, newError(raw, from, target, "incompatible types")
}

func toDecimal(raw any, from Kind, target Type) (decimal.Decimal, error) {
	switch x := raw.(type) {
	case int16:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Decimal{}, newError(raw, from, target, "not a finite number")
		}
		return decimal.NewFromFloat(x), nil
	case decimal.Decimal:
		return x, nil
	}
	return decimal.Decimal{}, newError(raw, from, target, "incompatible types")
}
