package execution

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"sunit/internal/domain"
	"sunit/internal/parser"
	"sunit/pkg/sunit"
)

// Runner invokes suite methods with failure isolation
type Runner struct {
	parser parser.Parser
	logger *slog.Logger
}

// NewRunner creates a new Runner
func NewRunner(p parser.Parser, logger *slog.Logger) *Runner {
	if p == nil {
		p = parser.NewFailureParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{parser: p, logger: logger}
}

// callResult is the outcome of one method call.
type callResult struct {
	Value any
	Err   error
	Stack []byte
	// Passed is true when nothing was raised or only the early-pass sentinel.
	Passed bool
	// Early is true when the call stopped with the early-pass sentinel.
	Early bool
}

// call invokes inv, converting panics into errors.
func (r *Runner) call(inv domain.Invoker, instance any, args []any) (res callResult) {
	defer func() {
		if v := recover(); v != nil {
			err := panicError(v)
			res = callResult{Err: err, Stack: debug.Stack()}
			res.Early = errors.Is(err, sunit.ErrPass)
			res.Passed = res.Early
		}
	}()

	value, err := inv(instance, args)
	early := errors.Is(err, sunit.ErrPass)
	return callResult{
		Value:  value,
		Err:    err,
		Passed: err == nil || early,
		Early:  early,
	}
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}

// instantiate constructs a suite or source instance.
func (r *Runner) instantiate(newFn func() (any, error)) (res callResult) {
	if newFn == nil {
		return callResult{Err: errors.New("type has no constructor"), Passed: false}
	}
	return r.call(func(any, []any) (any, error) { return newFn() }, nil, nil)
}

// invocation is the outcome of one scoped setUp/body/tearDown sequence.
type invocation struct {
	Value   any
	Failure *domain.TestFailure
}

// Invoke runs per-test setup, the body and per-test teardown for one test
// or case. Teardown runs whatever happened before it. A setup failure skips
// the body. For cases with an expected result the returned value must equal it.
func (r *Runner) Invoke(suite *domain.SuiteDescriptor, instance any, test string, caseIdx int, inv domain.Invoker, c *domain.CaseDescriptor) invocation {
	var (
		out  invocation
		args []any
	)
	if c != nil {
		args = c.Args
	}

	fail := func(phase Phase, res callResult) {
		if out.Failure != nil {
			r.logger.Warn("additional failure", "suite", suite.Name, "test", test, "case", caseIdx, "phase", phase, "error", res.Err)
			return
		}
		failure := r.parser.Parse(parser.Signal{
			Suite: suite.Name, Test: test, Case: caseIdx, Err: res.Err, Stack: res.Stack,
		})
		if phase != "" {
			failure.Phase = string(phase)
		}
		out.Failure = &failure
	}

	setUpOK := true
	if suite.SetUp != nil {
		if res := r.call(suite.SetUp.Invoke, instance, nil); !res.Passed {
			setUpOK = false
			fail(PhaseSetUp, res)
		}
	}

	if setUpOK {
		res := r.call(inv, instance, args)
		out.Value = res.Value
		switch {
		case !res.Passed:
			fail("", res)
		case c != nil && c.HasExpected && !res.Early && !sunit.Equal(c.Expected, res.Value):
			fail("", callResult{Err: mismatch(c.Expected, res.Value)})
		}
	}

	if suite.TearDown != nil {
		if res := r.call(suite.TearDown.Invoke, instance, nil); !res.Passed {
			fail(PhaseTearDown, res)
		}
	}

	return out
}

// hook runs a one-time lifecycle method. The early-pass sentinel counts as success.
func (r *Runner) hook(suite string, h *domain.Hook, instance any, phase Phase) (domain.TestFailure, error) {
	res := r.call(h.Invoke, instance, nil)
	if res.Passed {
		return domain.TestFailure{}, nil
	}
	return r.parser.Parse(parser.Signal{Suite: suite, Phase: string(phase), Err: res.Err, Stack: res.Stack}), res.Err
}

// collectCases returns the inline cases followed by the cases of each source.
// Source evaluation stops at the first failing source.
func (r *Runner) collectCases(suite *domain.SuiteDescriptor, instance any, test domain.TestDescriptor) ([]domain.CaseDescriptor, error) {
	cases := make([]domain.CaseDescriptor, 0, len(test.Cases))
	cases = append(cases, test.Cases...)

	for _, src := range test.Sources {
		var srcInstance any
		switch {
		case src.SameType:
			srcInstance = instance
		case src.New != nil:
			res := r.instantiate(src.New)
			if !res.Passed {
				return cases, fmt.Errorf("instantiate case source %s: %w", src, res.Err)
			}
			srcInstance = res.Value
		}

		res := r.call(func(inst any, _ []any) (any, error) { return src.Eval(inst) }, srcInstance, nil)
		if !res.Passed || res.Early {
			err := res.Err
			if err == nil || res.Early {
				err = errors.New("case source stopped early")
			}
			return cases, fmt.Errorf("evaluate case source %s: %w", src, err)
		}
		sourced, _ := res.Value.([]domain.CaseDescriptor)
		r.logger.Debug("case source evaluated", "suite", suite.Name, "test", test.Name, "source", src.String(), "cases", len(sourced))
		cases = append(cases, sourced...)
	}
	return cases, nil
}
