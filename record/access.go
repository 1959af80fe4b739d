package record

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/kbukum/monox/errors"
)

// Field returns the named field of a map record.
func (r *Record) Field(name string) (*Record, error) {
	if r.kind != KindMap {
		return nil, errors.TypeMismatch(name, KindMap.String(), r.kind.String())
	}
	f, ok := r.fields[name]
	if !ok {
		return nil, errors.MissingField(name, r.Fields())
	}
	return f, nil
}

// Float returns the named field as a float64. Any numeric scalar is accepted.
func (r *Record) Float(name string) (float64, error) {
	f, err := r.scalarField(name)
	if err != nil {
		return 0, err
	}
	v, ok := toFloat(f.value)
	if !ok {
		return 0, errors.TypeMismatch(name, "number", describe(f.value))
	}
	return v, nil
}

// Int returns the named field as an int64. Floats are accepted only when
// they hold an integral value, which is how JSON decoders deliver counts.
func (r *Record) Int(name string) (int64, error) {
	f, err := r.scalarField(name)
	if err != nil {
		return 0, err
	}
	v, ok := toInt(f.value)
	if !ok {
		return 0, errors.TypeMismatch(name, "integer", describe(f.value))
	}
	return v, nil
}

// Uint returns the named field as a uint64, for bit-flag words.
func (r *Record) Uint(name string) (uint64, error) {
	v, err := r.Int(name)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.TypeMismatch(name, "unsigned integer", fmt.Sprintf("%d", v))
	}
	return uint64(v), nil
}

// Bool returns the named field as a bool.
func (r *Record) Bool(name string) (bool, error) {
	f, err := r.scalarField(name)
	if err != nil {
		return false, err
	}
	b, ok := f.value.(bool)
	if !ok {
		return false, errors.TypeMismatch(name, "bool", describe(f.value))
	}
	return b, nil
}

// Str returns the named field as a string.
func (r *Record) Str(name string) (string, error) {
	f, err := r.scalarField(name)
	if err != nil {
		return "", err
	}
	s, ok := f.value.(string)
	if !ok {
		return "", errors.TypeMismatch(name, "string", describe(f.value))
	}
	return s, nil
}

// Items returns the elements of the named sequence field. A null field is
// treated as an empty sequence, since decoders emit null for empty
// collections.
func (r *Record) Items(name string) ([]*Record, error) {
	f, err := r.Field(name)
	if err != nil {
		return nil, err
	}
	if f.IsNull() {
		return nil, nil
	}
	if f.kind != KindSequence {
		return nil, errors.TypeMismatch(name, KindSequence.String(), f.kind.String())
	}
	return f.items, nil
}

// Count returns the number of elements of the named sequence field.
func (r *Record) Count(name string) (int, error) {
	items, err := r.Items(name)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (r *Record) scalarField(name string) (*Record, error) {
	f, err := r.Field(name)
	if err != nil {
		return nil, err
	}
	if f.kind != KindScalar {
		return nil, errors.TypeMismatch(name, KindScalar.String(), f.kind.String())
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case float32:
		return integral(float64(n))
	case float64:
		return integral(n)
	default:
		return 0, false
	}
}

func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
