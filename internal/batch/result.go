package batch

import (
	"fmt"
	"strings"
	"time"
)

// ItemOutcome records what happened to one label.
type ItemOutcome struct {
	Label      int64
	Document   string
	PrintErr   error
	RecordErr  error
	RecordPath string
}

// Failed reports whether either sink failed for this label.
func (o ItemOutcome) Failed() bool {
	return o.PrintErr != nil || o.RecordErr != nil
}

// Describe summarizes the per-sink outcome, e.g. "label 6: print failed (...); record ok".
func (o ItemOutcome) Describe() string {
	return fmt.Sprintf("label %d: %s; %s", o.Label, sinkStatus("print", o.PrintErr), sinkStatus("record", o.RecordErr))
}

func sinkStatus(sink string, err error) string {
	if err == nil {
		return sink + " ok"
	}
	return fmt.Sprintf("%s failed (%v)", sink, err)
}

// Result summarizes a run. It is returned for every run that got past setup,
// including cancelled ones.
type Result struct {
	RunID      string
	Start      int64
	End        int64
	OutputDir  string
	Template   string
	Printer    string
	Cleared    int
	StartedAt  time.Time
	FinishedAt time.Time
	Cancelled  bool
	Items      []ItemOutcome
}

// Attempted returns how many labels were generated.
func (r *Result) Attempted() int {
	return len(r.Items)
}

// Failures returns the outcomes where at least one sink failed.
func (r *Result) Failures() []ItemOutcome {
	var out []ItemOutcome
	for _, item := range r.Items {
		if item.Failed() {
			out = append(out, item)
		}
	}
	return out
}

// Completed reports whether every label in the range was attempted and
// delivered to both sinks.
func (r *Result) Completed() bool {
	return !r.Cancelled && uint64(len(r.Items)) == (Request{Start: r.Start, End: r.End}).Count() && len(r.Failures()) == 0
}

// NextLabel returns the first label that was never attempted, and false when
// the whole range was attempted.
func (r *Result) NextLabel() (int64, bool) {
	if len(r.Items) == 0 {
		return r.Start, true
	}
	last := r.Items[len(r.Items)-1].Label
	if last >= r.End {
		return 0, false
	}
	return last + 1, true
}

// Duration returns the wall time of the run.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders the single end-of-run report.
func (r *Result) Summary() string {
	failures := r.Failures()
	var b strings.Builder
	switch {
	case r.Cancelled:
		fmt.Fprintf(&b, "Run cancelled after %d of %d labels", len(r.Items), (Request{Start: r.Start, End: r.End}).Count())
		if next, ok := r.NextLabel(); ok {
			fmt.Fprintf(&b, "; labels %d to %d were not attempted", next, r.End)
		}
		b.WriteString(".")
	case len(failures) == 0:
		fmt.Fprintf(&b, "Labels generated and printed from %d to %d.", r.Start, r.End)
		return b.String()
	default:
		fmt.Fprintf(&b, "Labels %d to %d completed with %d %s.", r.Start, r.End, len(failures), plural(len(failures), "failure", "failures"))
	}
	for _, f := range failures {
		b.WriteString("\n  ")
		b.WriteString(f.Describe())
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
