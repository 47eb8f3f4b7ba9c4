package sunit

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrPass is returned (or panicked) by a test body to stop early and still pass.
	ErrPass = errors.New("sunit: early pass")
	// ErrAssertion is wrapped by every error produced by the assertion helpers.
	ErrAssertion = errors.New("assertion failed")
	// ErrDuplicateType is returned when a type name is registered twice.
	ErrDuplicateType = errors.New("type already registered")
)

// AssertionError describes a failed assertion and where it was made.
type AssertionError struct {
	Msg  string
	File string
	Line int
}

func (e *AssertionError) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

func (e *AssertionError) Unwrap() error { return ErrAssertion }

// assertf must be called directly by an exported assertion so that the
// recorded location is the caller of that assertion.
func assertf(format string, args ...any) error {
	err := &AssertionError{Msg: fmt.Sprintf(format, args...)}
	if _, file, line, ok := runtime.Caller(2); ok {
		err.File, err.Line = file, line
	}
	return err
}
