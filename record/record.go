package record

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Kind identifies which shape a Record holds.
type Kind uint8

const (
	KindScalar Kind = iota
	KindSequence
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Record is a node of a normalized event graph. The zero value is a null scalar.
// Records are immutable once built and safe for concurrent reads.
type Record struct {
	kind   Kind
	value  any
	items  []*Record
	fields map[string]*Record
	names  []string // sorted field names
}

// Scalar wraps a primitive value. The value is not inspected.
func Scalar(v any) *Record {
	return &Record{kind: KindScalar, value: v}
}

// Sequence builds an ordered sequence. A nil or empty argument list yields an
// empty sequence, never a scalar.
func Sequence(items ...*Record) *Record {
	if items == nil {
		items = []*Record{}
	}
	return &Record{kind: KindSequence, items: items}
}

// Map builds an attribute map from already-normalized fields.
func Map(fields map[string]*Record) *Record {
	r := &Record{
		kind:   KindMap,
		fields: make(map[string]*Record, len(fields)),
		names:  make([]string, 0, len(fields)),
	}
	for name, f := range fields {
		r.fields[name] = f
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Kind returns the shape of the record.
func (r *Record) Kind() Kind { return r.kind }

// IsNull reports whether r is a scalar holding nil.
func (r *Record) IsNull() bool { return r.kind == KindScalar && r.value == nil }

// Value returns the payload of a scalar, or nil for sequences and maps.
func (r *Record) Value() any {
	if r.kind != KindScalar {
		return nil
	}
	return r.value
}

// Len returns the number of elements of a sequence or fields of a map.
// Scalars have length 0.
func (r *Record) Len() int {
	switch r.kind {
	case KindSequence:
		return len(r.items)
	case KindMap:
		return len(r.names)
	default:
		return 0
	}
}

// Index returns the i-th element of a sequence, or nil when r is not a
// sequence or i is out of range.
func (r *Record) Index(i int) *Record {
	if r.kind != KindSequence || i < 0 || i >= len(r.items) {
		return nil
	}
	return r.items[i]
}

// Elements returns the elements of a sequence in order. The slice is shared;
// callers must not modify it.
func (r *Record) Elements() []*Record {
	if r.kind != KindSequence {
		return nil
	}
	return r.items
}

// Fields returns the field names of a map in sorted order.
func (r *Record) Fields() []string {
	if r.kind != KindMap {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether a map record has the named field.
func (r *Record) Has(name string) bool {
	if r.kind != KindMap {
		return false
	}
	_, ok := r.fields[name]
	return ok
}

// Lookup returns the named field without building an error.
func (r *Record) Lookup(name string) (*Record, bool) {
	if r.kind != KindMap {
		return nil, false
	}
	f, ok := r.fields[name]
	return f, ok
}

// String renders the record deterministically: maps as {a: .., b: ..} in
// sorted field order, sequences as [.., ..], scalars with %v.
func (r *Record) String() string {
	var b strings.Builder
	r.write(&b)
	return b.String()
}

func (r *Record) write(b *strings.Builder) {
	switch r.kind {
	case KindMap:
		b.WriteByte('{')
		for i, name := range r.names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			r.fields[name].write(b)
		}
		b.WriteByte('}')
	case KindSequence:
		b.WriteByte('[')
		for i, item := range r.items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	default:
		if s, ok := r.value.(string); ok {
			fmt.Fprintf(b, "%q", s)
			return
		}
		if r.value == nil {
			b.WriteString("null")
			return
		}
		fmt.Fprintf(b, "%v", r.value)
	}
}

// Equal reports whether a and b are structurally equal: same shape, equal
// scalar payloads, equal elements in the same order and the same field set
// with equal values.
func Equal(a, b *Record) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindSequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.names) != len(b.names) {
			return false
		}
		for i, name := range a.names {
			if b.names[i] != name || !Equal(a.fields[name], b.fields[name]) {
				return false
			}
		}
		return true
	default:
		return scalarEqual(a.value, b.value)
	}
}

func scalarEqual(x, y any) bool {
	xf, xnum := toFloat(x)
	yf, ynum := toFloat(y)
	if xnum || ynum {
		return xnum && ynum && xf == yf
	}
	return reflect.DeepEqual(x, y)
}
