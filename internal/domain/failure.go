package domain

// TestFailure is the diagnostic detail of a failed test, case or suite phase.
type TestFailure struct {
	Suite      string   `json:"suite"`
	TestName   string   `json:"test_name"`
	Case       int      `json:"case,omitempty"` // 1-based; 0 for simple tests and suite phases
	Phase      string   `json:"phase,omitempty"`
	Message    string   `json:"message"`
	ErrorChain []string `json:"error_chain,omitempty"`
	StackTrace []string `json:"stack_trace,omitempty"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	Resolved   bool     `json:"resolved,omitempty"` // Toggled in the failure viewer
}

// Key identifies the failing test across runs.
func (f TestFailure) Key() string {
	return QualifiedName(f.Suite, f.TestName)
}
