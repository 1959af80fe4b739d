package analysis

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/kbukum/monox/errors"
	"github.com/kbukum/monox/histogram"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBar is the width of the longest histogram bar in text output.
const maxBar = 40

// Report is the result of one Run.
type Report struct {
	RunID      string
	Input      string
	Observable Observable
	// Events counts the measured events; Values holds one value per event.
	Events    int
	Skipped   int
	Values    []int
	Histogram *histogram.Histogram
	Duration  time.Duration
}

type jsonReport struct {
	RunID      string          `json:"run_id"`
	Input      string          `json:"input"`
	Observable Observable      `json:"observable"`
	Events     int             `json:"events"`
	Skipped    int             `json:"skipped"`
	DurationMs int64           `json:"duration_ms"`
	Bins       []histogram.Bin `json:"bins"`
	Underflow  int             `json:"underflow"`
	Overflow   int             `json:"overflow"`
}

// Write renders the report in format (OutputText or OutputJSON).
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case OutputText, "":
		return r.WriteText(w)
	case OutputJSON:
		return r.WriteJSON(w)
	default:
		return errors.InvalidInput("output", fmt.Sprintf("unknown format %q", format))
	}
}

// WriteJSON writes the report as one indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	out := jsonReport{
		RunID:      r.RunID,
		Input:      r.Input,
		Observable: r.Observable,
		Events:     r.Events,
		Skipped:    r.Skipped,
		DurationMs: r.Duration.Milliseconds(),
		Bins:       []histogram.Bin{},
	}
	if r.Histogram != nil {
		out.Bins = r.Histogram.Bins()
		out.Underflow = r.Histogram.Underflow
		out.Overflow = r.Histogram.Overflow
	}
	if err := enc.Encode(out); err != nil {
		return errors.IO("report", err)
	}
	return nil
}

// WriteText writes a header and one row per bin with a proportional bar.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", r.RunID)
	fmt.Fprintf(tw, "input\t%s\n", r.Input)
	fmt.Fprintf(tw, "observable\t%s\n", r.Observable)
	fmt.Fprintf(tw, "events\t%d\n", r.Events)
	if r.Skipped > 0 {
		fmt.Fprintf(tw, "skipped\t%d\n", r.Skipped)
	}
	fmt.Fprintf(tw, "duration\t%s\n", r.Duration.Round(time.Millisecond))
	if r.Histogram != nil {
		bins := r.Histogram.Bins()
		peak := 0
		for _, b := range bins {
			peak = max(peak, b.Count)
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "lower\tupper\tcount\t")
		for _, b := range bins {
			fmt.Fprintf(tw, "%g\t%g\t%d\t%s\n", b.Lower, b.Upper, b.Count, bar(b.Count, peak))
		}
	}
	if err := tw.Flush(); err != nil {
		return errors.IO("report", err)
	}
	return nil
}

func bar(count, peak int) string {
	if peak == 0 || count == 0 {
		return ""
	}
	n := count * maxBar / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}
