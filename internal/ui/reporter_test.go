package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunit/internal/domain"
	"sunit/internal/execution"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.ResultRecord
		want string
	}{
		{
			name: "simple success",
			rec:  domain.ResultRecord{Suite: "SimpleTests", Test: "Passes", Mode: domain.Simple},
			want: "Test 'SimpleTests Passes' finished with Success",
		},
		{
			name: "simple failure",
			rec:  domain.ResultRecord{Suite: "SimpleTests", Test: "Fails", Mode: domain.Simple, Outcome: domain.Failure},
			want: "Test 'SimpleTests Fails' finished with Error",
		},
		{
			name: "parameterized",
			rec:  domain.ResultRecord{Suite: "CaseTests", Test: "Sum", Mode: domain.Parameterized, Successes: 2, Total: 3},
			want: "Test 'CaseTests Sum' finished with 2/3 successful test cases.",
		},
		{
			name: "parameterized without cases",
			rec:  domain.ResultRecord{Suite: "CaseTests", Test: "Empty", Mode: domain.Parameterized},
			want: "Test 'CaseTests Empty' finished with 0/0 successful test cases.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatResult(tt.rec))
		})
	}
}

func TestFormatFailure(t *testing.T) {
	assert.Equal(t, "  case 2: expected 3 (int), got 4 (int)",
		FormatFailure(domain.TestFailure{Case: 2, Message: "expected 3 (int), got 4 (int)"}))
	assert.Equal(t, "  SetUp: boom\n    at suite.go:12",
		FormatFailure(domain.TestFailure{Phase: "SetUp", Message: "boom", File: "suite.go", Line: 12}))
	assert.Equal(t, "  first\n    second",
		FormatFailure(domain.TestFailure{Message: "first\nsecond"}))
}

func TestReporter_TestFinished(t *testing.T) {
	sink := &MemorySink{}
	r := NewReporter(sink)

	r.TestFinished(domain.ResultRecord{Suite: "S", Test: "Ok", Mode: domain.Simple})
	r.TestFinished(domain.ResultRecord{
		Suite: "S", Test: "Sum", Mode: domain.Parameterized, Successes: 1, Total: 2,
		Failures: []domain.TestFailure{{Suite: "S", TestName: "Sum", Case: 2, Message: "mismatch"}},
	})

	require.Len(t, sink.Lines, 3)
	assert.Equal(t, "INFO Test 'S Ok' finished with Success", sink.Lines[0])
	assert.Equal(t, "ERROR   case 2: mismatch", sink.Lines[1])
	assert.Equal(t, "ERROR Test 'S Sum' finished with 1/2 successful test cases.", sink.Lines[2])
}

func TestReporter_SourceErrorIsReportedAsFailure(t *testing.T) {
	sink := &MemorySink{}
	NewReporter(sink).TestFinished(domain.ResultRecord{
		Suite: "S", Test: "Sourced", Mode: domain.Parameterized, Successes: 1, Total: 1,
		Err: errors.New("source failed"),
	})

	require.Len(t, sink.Lines, 1)
	assert.Equal(t, "ERROR Test 'S Sourced' finished with 1/1 successful test cases.", sink.Lines[0])
}

func TestReporter_SuiteEvents(t *testing.T) {
	sink := &MemorySink{}
	r := NewReporter(sink)

	r.SuiteAborted(&execution.SuiteFatalError{Suite: "Broken", Phase: execution.PhaseOneTimeSetUp, Err: errors.New("db down")})
	r.TeardownFailed("Leaky", domain.TestFailure{Message: "close failed"})
	r.DiscoveryErrors([]error{errors.New("unresolved source")})

	assert.Equal(t, []string{
		"ERROR Suite 'Broken' aborted during OneTimeSetUp: db down",
		"ERROR Suite 'Leaky' one-time teardown failed: close failed",
		"ERROR Discovery: unresolved source",
	}, sink.Lines)
}
