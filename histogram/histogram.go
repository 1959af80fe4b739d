package histogram

import (
	"fmt"
	"math"
	"sort"

	"github.com/kbukum/monox/errors"
)

// Bin is one histogram bin with its count.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram holds counts for len(Edges)-1 bins.
type Histogram struct {
	Edges     []float64 `json:"edges"`
	Counts    []int     `json:"counts"`
	Underflow int       `json:"underflow"`
	Overflow  int       `json:"overflow"`
	// closedLast puts values equal to the last edge in the last bin.
	closedLast bool
}

// New counts values into the closed-open bins defined by edges. Edges must
// be finite, strictly ascending and at least two long. NaN values count as
// overflow.
func New(values, edges []float64) (*Histogram, error) {
	if err := validateEdges(edges); err != nil {
		return nil, err
	}
	h := &Histogram{
		Edges:  append([]float64(nil), edges...),
		Counts: make([]int, len(edges)-1),
	}
	h.fill(values)
	return h, nil
}

// Uniform builds nbins equal-width bins spanning the minimum and maximum of
// values. The maximum itself lands in the last bin, so no value over- or
// underflows. An empty input yields bins over [0, 1); a constant input is
// widened to [v-0.5, v+0.5).
func Uniform(values []float64, nbins int) (*Histogram, error) {
	if nbins < 1 {
		return nil, errors.InvalidInput("nbins", fmt.Sprintf("must be at least 1, got %d", nbins))
	}
	lo, hi, err := span(values)
	if err != nil {
		return nil, err
	}
	edges := make([]float64, nbins+1)
	width := (hi - lo) / float64(nbins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[nbins] = hi
	h := &Histogram{Edges: edges, Counts: make([]int, nbins), closedLast: true}
	h.fill(values)
	return h, nil
}

// Ints converts integer observables to float64 values.
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// Total returns the number of values that landed inside a bin.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// Bins returns the bins in ascending order.
func (h *Histogram) Bins() []Bin {
	out := make([]Bin, len(h.Counts))
	for i, c := range h.Counts {
		out[i] = Bin{Lower: h.Edges[i], Upper: h.Edges[i+1], Count: c}
	}
	return out
}

func (h *Histogram) fill(values []float64) {
	last := len(h.Edges) - 1
	for _, v := range values {
		switch {
		case v < h.Edges[0]:
			h.Underflow++
		case v == h.Edges[last] && h.closedLast:
			h.Counts[last-1]++
		case v >= h.Edges[last] || math.IsNaN(v):
			h.Overflow++
		default:
			// first edge strictly greater than v, minus one
			i := sort.SearchFloat64s(h.Edges, v)
			if i < len(h.Edges) && h.Edges[i] == v {
				i++
			}
			h.Counts[i-1]++
		}
	}
}

func validateEdges(edges []float64) error {
	if len(edges) < 2 {
		return errors.InvalidInput("edges", fmt.Sprintf("need at least 2 edges, got %d", len(edges)))
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return errors.InvalidInput("edges", fmt.Sprintf("edge %d (%v) must be finite", i, e))
		}
		if i > 0 && e <= edges[i-1] {
			return errors.InvalidInput("edges", fmt.Sprintf("edge %d (%v) must be greater than %v", i, e, edges[i-1]))
		}
	}
	return nil
}

func span(values []float64) (lo, hi float64, err error) {
	if len(values) == 0 {
		return 0, 1, nil
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, errors.InvalidInput("values", fmt.Sprintf("cannot derive a range from %v", v))
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5, nil
	}
	return lo, hi, nil
}
