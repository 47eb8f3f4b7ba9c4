package sunit

import "fmt"

// CaseData is one argument tuple for a parameterized test, with an optional
// expected return value.
type CaseData struct {
	Args        []any
	Expected    any
	HasExpected bool
}

// NewCaseData builds a case from positional arguments.
func NewCaseData(args ...any) CaseData {
	return CaseData{Args: args}
}

// Returns sets the value the test body must return for the case to pass.
func (c CaseData) Returns(expected any) CaseData {
	c.Expected = expected
	c.HasExpected = true
	return c
}

// String renders the case the way it appears in failure details.
func (c CaseData) String() string {
	if c.HasExpected {
		return fmt.Sprintf("%v -> %v", c.Args, c.Expected)
	}
	return fmt.Sprintf("%v", c.Args)
}

// Args are the call arguments of one case. The typed accessors panic on a
// missing index or a type mismatch; the engine records the panic as a failure.
type Args []any

// Len returns the number of arguments.
func (a Args) Len() int { return len(a) }

// Get returns the i-th argument.
func (a Args) Get(i int) any {
	if i < 0 || i >= len(a) {
		panic(fmt.Sprintf("sunit: argument %d out of range (case has %d)", i, len(a)))
	}
	return a[i]
}

// Int returns the i-th argument as an int.
func (a Args) Int(i int) int { return argAs[int](a, i) }

// String returns the i-th argument as a string.
func (a Args) String(i int) string { return argAs[string](a, i) }

// Float64 returns the i-th argument as a float64.
func (a Args) Float64(i int) float64 { return argAs[float64](a, i) }

// Bool returns the i-th argument as a bool.
func (a Args) Bool(i int) bool { return argAs[bool](a, i) }

func argAs[T any](a Args, i int) T {
	v := a.Get(i)
	t, ok := v.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("sunit: argument %d is %T, not %T", i, v, zero))
	}
	return t
}
