// Package analysis runs the example selection over an input file and
// histograms one per-event observable.
//
// A Job reads events through source, converts each one with record.Convert,
// measures the configured Observable with a selection.Selector, collects the
// values across partitions with dataset.Collect and bins them with
// histogram.Uniform. The result is a Report that can be written as a text
// table or JSON.
package analysis
