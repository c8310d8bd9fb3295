// Package report renders test and fuzz results as text or JSON, the way
// the teacher's reporting package renders a SecurityReport — trimmed to
// this repository's two result shapes instead of a full findings model.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	bf "bfopt"
	"bfopt/internal/diffuzz"
)

// Format selects how a Reporter renders a result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Reporter writes rendered reports to an underlying writer.
type Reporter struct {
	w      io.Writer
	format Format
}

// New returns a Reporter writing in the given format.
func New(w io.Writer, format Format) *Reporter {
	return &Reporter{w: w, format: format}
}

// TestReport is the outcome of running bf.Test against one source.
type TestReport struct {
	Source      string           `json:"source"`
	GeneratedAt time.Time        `json:"generated_at"`
	CaseCount   int              `json:"case_count"`
	Failures    []bf.TestFailure `json:"failures"`
}

// WriteTestReport renders r.
func (rep *Reporter) WriteTestReport(r TestReport) error {
	if rep.format == FormatJSON {
		return rep.writeJSON(r)
	}

	fmt.Fprintf(rep.w, "ran %s case%s, generated %s\n",
		humanize.Comma(int64(r.CaseCount)), plural(r.CaseCount), humanize.Time(r.GeneratedAt))

	if len(r.Failures) == 0 {
		fmt.Fprintln(rep.w, "all cases passed")
		return nil
	}

	fmt.Fprintf(rep.w, "%s failure%s:\n", humanize.Comma(int64(len(r.Failures))), plural(len(r.Failures)))
	for _, f := range r.Failures {
		fmt.Fprintf(rep.w, "  - %s\n", f.String())
	}
	return nil
}

// FuzzReport summarizes a differential-fuzzing sweep.
type FuzzReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	CasesRun    int            `json:"cases_run"`
	Elapsed     time.Duration  `json:"elapsed_ns"`
	Mismatches  []*diffuzz.Run `json:"mismatches"`
}

// WriteFuzzReport renders r.
func (rep *Reporter) WriteFuzzReport(r FuzzReport) error {
	if rep.format == FormatJSON {
		return rep.writeJSON(r)
	}

	fmt.Fprintf(rep.w, "fuzzed %s case%s in %s, generated %s\n",
		humanize.Comma(int64(r.CasesRun)), plural(r.CasesRun), r.Elapsed.Round(time.Millisecond), humanize.Time(r.GeneratedAt))

	if len(r.Mismatches) == 0 {
		fmt.Fprintln(rep.w, "no disagreements across O0-O3")
		return nil
	}

	fmt.Fprintf(rep.w, "%s disagreement%s found:\n", humanize.Comma(int64(len(r.Mismatches))), plural(len(r.Mismatches)))
	for _, m := range r.Mismatches {
		fmt.Fprintf(rep.w, "  - %q: %s\n", m.Source, m.OutputDisagreement)
	}
	return nil
}

func (rep *Reporter) writeJSON(v any) error {
	enc := json.NewEncoder(rep.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
