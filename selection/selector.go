package selection

import (
	"fmt"
	"math"

	"github.com/kbukum/monox/lookup"
	"github.com/kbukum/monox/record"
)

// Predicate is a pass/fail rule over a single physics object.
type Predicate func(obj *record.Record) (bool, error)

// Selector evaluates the identification rules against injected tables.
// It holds no mutable state and is safe for concurrent use.
type Selector struct {
	areas   EffectiveAreas
	puJetID *lookup.Table
}

// NewSelector builds a Selector around the given effective areas.
func NewSelector(areas EffectiveAreas) *Selector {
	return &Selector{areas: areas, puJetID: newPileupJetIDTable()}
}

// Areas returns the effective-area tables the selector was built with.
func (s *Selector) Areas() EffectiveAreas { return s.areas }

// CountPassing counts the objects in the named collection of event that
// pass pred. The first predicate error aborts the count and is returned with
// the object index attached.
func (s *Selector) CountPassing(event *record.Record, collection string, pred Predicate) (int, error) {
	objs, err := event.Items(collection)
	if err != nil {
		return 0, err
	}
	n := 0
	for i, obj := range objs {
		ok, err := pred(obj)
		if err != nil {
			return 0, fmt.Errorf("%s[%d]: %w", collection, i, err)
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// fieldReader reads numeric fields and keeps the first access error. After
// an error every read returns 0; callers check err once at the end, which
// keeps the cut sequences readable while still short-circuiting on the
// first failing cut.
type fieldReader struct {
	rec *record.Record
	err error
}

func (r *fieldReader) float(name string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.rec.Float(name)
	if err != nil {
		r.err = err
		return 0
	}
	return v
}

func (r *fieldReader) absFloat(name string) float64 {
	return math.Abs(r.float(name))
}

func (r *fieldReader) uint(name string) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.rec.Uint(name)
	if err != nil {
		r.err = err
		return 0
	}
	return v
}

// result folds a cut outcome with any access error: an error always wins.
func (r *fieldReader) result(pass bool) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return pass, nil
}
