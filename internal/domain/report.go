package domain

import "time"

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalSuites     int     `json:"total_suites"`
	AbortedSuites   int     `json:"aborted_suites"`
	TeardownFails   int     `json:"teardown_failures"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	TotalCases      int     `json:"total_cases"`
	FailedCases     int     `json:"failed_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete stored report of a run
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}

// FailedKeys returns the Suite.Test keys of every stored failure.
func (o *TestResultsOutput) FailedKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(o.Details))
	for _, d := range o.Details {
		keys[d.Key()] = struct{}{}
	}
	return keys
}

// NewReport builds the stored report of a run.
func NewReport(runID string, s Summary, finishedAt time.Time) TestResultsOutput {
	return TestResultsOutput{
		Meta: TestResultsMeta{
			RunID:           runID,
			TotalSuites:     s.Suites,
			AbortedSuites:   s.AbortedSuites,
			TeardownFails:   s.TeardownFailures,
			TotalTests:      s.Tests,
			PassedTests:     s.PassedTests,
			FailedTests:     s.FailedTests,
			TotalCases:      s.Cases,
			FailedCases:     s.FailedCases,
			Duration:        s.Duration.String(),
			DurationSeconds: s.Duration.Seconds(),
			Timestamp:       finishedAt.Format(time.RFC3339),
		},
		Details: s.Failures(),
	}
}

// Unresolved counts the failures not yet marked resolved.
func (o *TestResultsOutput) Unresolved() int {
	n := 0
	for _, d := range o.Details {
		if !d.Resolved {
			n++
		}
	}
	return n
}
