package ui

import (
	"fmt"
	"strings"

	"sunit/internal/domain"
	"sunit/internal/execution"
)

// Reporter turns run events into result lines on a Sink.
type Reporter struct {
	execution.NopListener
	sink Sink
}

// NewReporter creates a Reporter writing to sink.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// FormatResult renders the summary line of one test.
func FormatResult(rec domain.ResultRecord) string {
	if rec.Mode == domain.Parameterized {
		return fmt.Sprintf("Test '%s %s' finished with %d/%d successful test cases.", rec.Suite, rec.Test, rec.Successes, rec.Total)
	}
	return fmt.Sprintf("Test '%s %s' finished with %s", rec.Suite, rec.Test, rec.Outcome)
}

// FormatFailure renders a failure detail as indented lines.
func FormatFailure(f domain.TestFailure) string {
	var b strings.Builder
	switch {
	case f.Case > 0:
		fmt.Fprintf(&b, "  case %d: ", f.Case)
	case f.Phase != "":
		fmt.Fprintf(&b, "  %s: ", f.Phase)
	default:
		b.WriteString("  ")
	}
	b.WriteString(strings.ReplaceAll(f.Message, "\n", "\n    "))
	if f.File != "" && f.Line > 0 {
		fmt.Fprintf(&b, "\n    at %s:%d", f.File, f.Line)
	}
	return b.String()
}

// TestFinished reports one test. Failure details precede the summary line.
func (r *Reporter) TestFinished(rec domain.ResultRecord) {
	if !rec.Failed() {
		r.sink.Info(FormatResult(rec))
		return
	}
	for _, f := range rec.Failures {
		r.sink.Error(FormatFailure(f))
	}
	r.sink.Error(FormatResult(rec))
}

// SuiteAborted reports a suite that ran no test.
func (r *Reporter) SuiteAborted(err *execution.SuiteFatalError) {
	r.sink.Error(fmt.Sprintf("Suite '%s' aborted during %s: %v", err.Suite, err.Phase, err.Err))
}

// TeardownFailed reports a failed one-time teardown.
func (r *Reporter) TeardownFailed(suite string, failure domain.TestFailure) {
	r.sink.Error(fmt.Sprintf("Suite '%s' one-time teardown failed: %s", suite, failure.Message))
}

// DiscoveryErrors reports tests skipped by discovery.
func (r *Reporter) DiscoveryErrors(errs []error) {
	for _, err := range errs {
		r.sink.Error(fmt.Sprintf("Discovery: %v", err))
	}
}
