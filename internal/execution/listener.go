package execution

import "sunit/internal/domain"

// Listener receives run events as they happen.
type Listener interface {
	RunStarted(suites []domain.SuiteDescriptor)
	SuiteStarted(suite domain.SuiteDescriptor)
	TestFinished(rec domain.ResultRecord)
	SuiteAborted(err *SuiteFatalError)
	TeardownFailed(suite string, failure domain.TestFailure)
	RunFinished(summary domain.Summary)
}

// NopListener ignores every event. Embed it to implement a subset of Listener.
type NopListener struct{}

func (NopListener) RunStarted([]domain.SuiteDescriptor)       {}
func (NopListener) SuiteStarted(domain.SuiteDescriptor)       {}
func (NopListener) TestFinished(domain.ResultRecord)          {}
func (NopListener) SuiteAborted(*SuiteFatalError)             {}
func (NopListener) TeardownFailed(string, domain.TestFailure) {}
func (NopListener) RunFinished(domain.Summary)                {}

// MultiListener forwards every event to each listener in order.
type MultiListener []Listener

func (m MultiListener) RunStarted(suites []domain.SuiteDescriptor) {
	for _, l := range m {
		l.RunStarted(suites)
	}
}

func (m MultiListener) SuiteStarted(suite domain.SuiteDescriptor) {
	for _, l := range m {
		l.SuiteStarted(suite)
	}
}

func (m MultiListener) TestFinished(rec domain.ResultRecord) {
	for _, l := range m {
		l.TestFinished(rec)
	}
}

func (m MultiListener) SuiteAborted(err *SuiteFatalError) {
	for _, l := range m {
		l.SuiteAborted(err)
	}
}

func (m MultiListener) TeardownFailed(suite string, failure domain.TestFailure) {
	for _, l := range m {
		l.TeardownFailed(suite, failure)
	}
}

func (m MultiListener) RunFinished(summary domain.Summary) {
	for _, l := range m {
		l.RunFinished(summary)
	}
}
