package execution

import (
	"errors"
	"fmt"

	"sunit/internal/domain"
)

// Phase is the suite lifecycle step a suite-level failure happened in.
type Phase string

const (
	PhaseConstruct       Phase = "construction"
	PhaseOneTimeSetUp    Phase = "OneTimeSetUp"
	PhaseOneTimeTearDown Phase = "OneTimeTearDown"
	PhaseSetUp           Phase = "SetUp"
	PhaseTearDown        Phase = "TearDown"
)

var (
	// ErrSuiteFatal is wrapped by SuiteFatalError.
	ErrSuiteFatal = errors.New("suite aborted")
	// ErrInvalidTransition is returned for disallowed suite state changes.
	ErrInvalidTransition = errors.New("invalid suite state transition")
)

// SuiteFatalError reports a suite that could not run any test because
// construction or one-time setup failed. The rest of the run continues.
type SuiteFatalError struct {
	Suite  string
	Phase  Phase
	Err    error
	Detail domain.TestFailure
}

func (e *SuiteFatalError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("suite %s aborted during %s: %v", e.Suite, e.Phase, e.Err)
}

func (e *SuiteFatalError) Unwrap() []error { return []error{ErrSuiteFatal, e.Err} }
