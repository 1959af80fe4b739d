// Package histogram reduces a materialized sequence of per-event values into
// fixed-bin counts.
//
// Bins are closed-open, [Edges[i], Edges[i+1]), the same convention as
// lookup tables. Values below the first edge or at/above the last edge are
// counted in Underflow and Overflow rather than dropped silently.
package histogram
