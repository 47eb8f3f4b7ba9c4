package parser

import "sunit/internal/domain"

// Signal is a failure raised while invoking a suite method.
type Signal struct {
	Suite string
	Test  string
	Case  int    // 1-based case index, 0 when not a case
	Phase string // lifecycle phase for suite-level failures
	Err   error
	Stack []byte // captured for panics only
}

// Parser turns raised signals into failure details
type Parser interface {
	Parse(sig Signal) domain.TestFailure
}
