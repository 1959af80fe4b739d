package record

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/kbukum/monox/errors"
)

// Convert normalizes v into a Record.
//
// Maps with string keys become attribute maps, slices and arrays become
// sequences (order kept), primitives become scalars holding the value
// unchanged. An existing *Record is returned as is. Any other value yields an
// UNSUPPORTED_SHAPE error naming the path to the offending value.
//
// The input must be a tree; cycles are not detected.
func Convert(v any) (*Record, error) {
	return convert(v, "$")
}

// MustConvert is like Convert but panics on error. Intended for static data.
func MustConvert(v any) *Record {
	r, err := Convert(v)
	if err != nil {
		panic(err)
	}
	return r
}

func convert(v any, path string) (*Record, error) {
	switch val := v.(type) {
	case nil:
		return Scalar(nil), nil
	case *Record:
		return val, nil
	case bool, string, json.Number, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Scalar(val), nil
	case map[string]any:
		fields := make(map[string]*Record, len(val))
		for k, elem := range val {
			f, err := convert(elem, path+"."+k)
			if err != nil {
				return nil, err
			}
			fields[k] = f
		}
		return Map(fields), nil
	case []any:
		items := make([]*Record, len(val))
		for i, elem := range val {
			item, err := convert(elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return Sequence(items...), nil
	default:
		return convertReflect(reflect.ValueOf(v), path)
	}
}

// convertReflect handles typed containers such as map[string]float64 or
// []map[string]any that the fast path does not name.
func convertReflect(rv reflect.Value, path string) (*Record, error) {
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, unsupported(rv, path)
		}
		fields := make(map[string]*Record, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			f, err := convert(iter.Value().Interface(), path+"."+k)
			if err != nil {
				return nil, err
			}
			fields[k] = f
		}
		return Map(fields), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Sequence(), nil
		}
		items := make([]*Record, rv.Len())
		for i := range items {
			item, err := convert(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return Sequence(items...), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Scalar(nil), nil
		}
		return convert(rv.Elem().Interface(), path)
	default:
		return nil, unsupported(rv, path)
	}
}

func unsupported(rv reflect.Value, path string) error {
	return errors.UnsupportedShape(rv.Type().String()).WithDetail("path", path)
}
