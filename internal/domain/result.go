package domain

import "time"

// Outcome is the verdict of a simple test.
type Outcome int

const (
	Success Outcome = iota
	Failure
)

// String renders the outcome the way result lines print it.
func (o Outcome) String() string {
	if o == Failure {
		return "Error"
	}
	return "Success"
}

// ResultRecord is the result of one test. Parameterized tests produce a
// single record carrying the case counts.
type ResultRecord struct {
	Suite     string
	Test      string
	Mode      Mode
	Outcome   Outcome
	Successes int
	Total     int
	// Err is set when the test could not produce case results at all,
	// e.g. a case source failed to evaluate.
	Err      error
	Failures []TestFailure
	Duration time.Duration
}

// Failed reports whether the record counts as a failure.
func (r ResultRecord) Failed() bool {
	if r.Err != nil {
		return true
	}
	if r.Mode == Parameterized {
		return r.Successes < r.Total
	}
	return r.Outcome == Failure
}

// Summary aggregates a run.
type Summary struct {
	Suites           int
	AbortedSuites    int
	TeardownFailures int
	Tests            int
	PassedTests      int
	FailedTests      int
	Cases            int
	FailedCases      int
	Duration         time.Duration
	Records          []ResultRecord
	// SuiteFailures are construction, one-time setup and one-time teardown failures.
	SuiteFailures []TestFailure
}

// Add folds a record into the summary.
func (s *Summary) Add(r ResultRecord) {
	s.Tests++
	if r.Failed() {
		s.FailedTests++
	} else {
		s.PassedTests++
	}
	if r.Mode == Parameterized {
		s.Cases += r.Total
		s.FailedCases += r.Total - r.Successes
	}
	s.Records = append(s.Records, r)
}

// Failures returns every failure detail of the run, suite-level ones first.
func (s Summary) Failures() []TestFailure {
	out := make([]TestFailure, 0, len(s.SuiteFailures))
	out = append(out, s.SuiteFailures...)
	for _, r := range s.Records {
		out = append(out, r.Failures...)
	}
	return out
}

// Passed reports whether every test and case passed and every suite
// completed its lifecycle cleanly.
func (s Summary) Passed() bool {
	return s.FailedTests == 0 && s.AbortedSuites == 0 && s.TeardownFailures == 0
}
