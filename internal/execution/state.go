package execution

import "fmt"

// SuiteState is the lifecycle state of one suite during a run.
type SuiteState int

const (
	StateCreated SuiteState = iota
	StateOneTimeSetUp
	StateReady
	StateRunningTest
	StateOneTimeTearDown
	StateDisposed
	StateAborted
)

func (s SuiteState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateOneTimeSetUp:
		return "OneTimeSetUp"
	case StateReady:
		return "Ready"
	case StateRunningTest:
		return "RunningTest"
	case StateOneTimeTearDown:
		return "OneTimeTearDown"
	case StateDisposed:
		return "Disposed"
	case StateAborted:
		return "Aborted"
	default:
		return fmt.Sprintf("SuiteState(%d)", int(s))
	}
}

func isAllowedTransition(from, to SuiteState) bool {
	switch from {
	case StateCreated:
		return to == StateOneTimeSetUp || to == StateAborted
	case StateOneTimeSetUp:
		return to == StateReady || to == StateAborted
	case StateReady:
		return to == StateRunningTest || to == StateOneTimeTearDown
	case StateRunningTest:
		return to == StateReady
	case StateOneTimeTearDown:
		return to == StateDisposed
	default:
		return false
	}
}

// suiteMachine tracks the lifecycle of one suite.
type suiteMachine struct {
	suite string
	state SuiteState
	// reachedReady is set once one-time setup succeeded. Only such suites
	// get their one-time teardown.
	reachedReady bool
}

func newSuiteMachine(suite string) *suiteMachine {
	return &suiteMachine{suite: suite, state: StateCreated}
}

// Transition moves the machine to the given state if the move is allowed.
func (m *suiteMachine) Transition(to SuiteState) error {
	if !isAllowedTransition(m.state, to) {
		return fmt.Errorf("%w for %q: %s -> %s", ErrInvalidTransition, m.suite, m.state, to)
	}
	m.state = to
	if to == StateReady {
		m.reachedReady = true
	}
	return nil
}
