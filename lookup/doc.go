// Package lookup implements piecewise-constant functions over absolute
// pseudorapidity.
//
// A Table is an ascending list of half-open bins [lower, upper) starting at 0,
// followed by an open-ended fallback bin that catches every value beyond the
// last explicit bound. Lookup is therefore total over [0, +inf): a value equal
// to a bin edge belongs to the bin whose lower bound it equals.
//
// Tables are immutable after construction and safe for concurrent use.
package lookup
