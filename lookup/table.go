package lookup

import (
	"fmt"
	"math"

	"github.com/kbukum/monox/errors"
)

// Bin is one half-open interval [Lower, Upper) and its value.
type Bin struct {
	Lower float64
	Upper float64
	Value float64
}

// Contains reports whether x lies in [Lower, Upper).
func (b Bin) Contains(x float64) bool {
	return x >= b.Lower && x < b.Upper
}

// Table maps |eta| to a constant per bin.
type Table struct {
	name     string
	bounds   []float64 // upper bounds of the explicit bins
	values   []float64 // one per explicit bin
	fallback float64
}

// New builds a table from the upper bounds of the explicit bins and one
// value per bin plus the fallback: len(values) must be len(bounds)+1. The
// first bin starts at 0 and bounds must be strictly ascending and positive.
func New(name string, bounds, values []float64) (*Table, error) {
	if len(values) != len(bounds)+1 {
		return nil, errors.InvalidInput("values",
			fmt.Sprintf("table %s: need %d values for %d bounds, got %d", name, len(bounds)+1, len(bounds), len(values)))
	}
	prev := 0.0
	for i, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) || b <= prev {
			return nil, errors.InvalidInput("bounds",
				fmt.Sprintf("table %s: bound %d (%v) must be finite and greater than %v", name, i, b, prev))
		}
		prev = b
	}
	t := &Table{
		name:     name,
		bounds:   append([]float64(nil), bounds...),
		values:   append([]float64(nil), values[:len(bounds)]...),
		fallback: values[len(bounds)],
	}
	return t, nil
}

// MustNew is like New but panics on invalid input. Use for constant tables.
func MustNew(name string, bounds, values []float64) *Table {
	t, err := New(name, bounds, values)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Lookup returns the value of the first bin containing absEta, scanning in
// ascending order. Values past the last explicit bound get the fallback.
// absEta is expected to be non-negative; negative input falls through to the
// fallback like any other uncovered value.
func (t *Table) Lookup(absEta float64) float64 {
	lower := 0.0
	for i, upper := range t.bounds {
		if absEta >= lower && absEta < upper {
			return t.values[i]
		}
		lower = upper
	}
	return t.fallback
}

// LookupEta is Lookup(|eta|).
func (t *Table) LookupEta(eta float64) float64 {
	return t.Lookup(math.Abs(eta))
}

// Fallback returns the value of the open-ended final bin.
func (t *Table) Fallback() float64 { return t.fallback }

// Bins returns every bin including the fallback, whose Upper is +Inf.
func (t *Table) Bins() []Bin {
	out := make([]Bin, 0, len(t.bounds)+1)
	lower := 0.0
	for i, upper := range t.bounds {
		out = append(out, Bin{Lower: lower, Upper: upper, Value: t.values[i]})
		lower = upper
	}
	return append(out, Bin{Lower: lower, Upper: math.Inf(1), Value: t.fallback})
}

func (t *Table) String() string {
	return fmt.Sprintf("lookup.Table(%s, %d bins)", t.name, len(t.bounds)+1)
}
