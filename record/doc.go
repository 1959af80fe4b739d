// Package record normalizes semi-structured event data into a uniform,
// attribute-addressable graph.
//
// A Record is one of three shapes: a scalar (number, string, bool or null,
// held unchanged), an ordered sequence of Records, or a map from field name
// to Record. Convert builds the graph from the generic maps, slices and
// primitives produced by a JSON decoder; anything else is rejected with an
// UNSUPPORTED_SHAPE error.
//
//	ev, err := record.Convert(decoded)
//	muons, err := ev.Items("Muon")
//	pt, err := muons[0].Float("pt")
//
// Field access is always by name. A missing field is a MISSING_FIELD error,
// a field of the wrong kind is TYPE_MISMATCH.
package record
