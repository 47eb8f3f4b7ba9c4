package domain

import "fmt"

// Mode is how a test is invoked.
type Mode int

const (
	// Simple tests are invoked once with no arguments.
	Simple Mode = iota
	// Parameterized tests are invoked once per case.
	Parameterized
)

func (m Mode) String() string {
	if m == Parameterized {
		return "Parameterized"
	}
	return "Simple"
}

// Invoker calls a method on a suite instance.
type Invoker func(instance any, args []any) (any, error)

// Hook is a lifecycle method of a suite.
type Hook struct {
	Name   string
	Invoke Invoker
}

// CaseDescriptor is one argument tuple of a parameterized test
type CaseDescriptor struct {
	Args        []any
	Expected    any
	HasExpected bool
}

func (c CaseDescriptor) String() string {
	if c.HasExpected {
		return fmt.Sprintf("%v -> %v", c.Args, c.Expected)
	}
	return fmt.Sprintf("%v", c.Args)
}

// CaseSource is a resolved case-source reference, evaluated when the test runs.
type CaseSource struct {
	TypeName string
	Member   string
	Kind     string
	// SameType is set when the member belongs to the declaring suite, in which
	// case the suite instance is passed to Eval.
	SameType bool
	// New constructs the source type. Nil for abstract types.
	New  func() (any, error)
	Eval func(instance any) ([]CaseDescriptor, error)
}

func (s CaseSource) String() string {
	return fmt.Sprintf("%s.%s", s.TypeName, s.Member)
}

// TestDescriptor describes one discovered test.
type TestDescriptor struct {
	Name    string
	Mode    Mode
	Invoke  Invoker
	Cases   []CaseDescriptor
	Sources []CaseSource
}

// SuiteDescriptor describes one discovered suite. It is not modified after discovery.
type SuiteDescriptor struct {
	Name            string
	New             func() (any, error)
	OneTimeSetUp    *Hook
	OneTimeTearDown *Hook
	SetUp           *Hook
	TearDown        *Hook
	Tests           []TestDescriptor
}

// QualifiedName returns "Suite.Test".
func QualifiedName(suite, test string) string {
	return suite + "." + test
}
