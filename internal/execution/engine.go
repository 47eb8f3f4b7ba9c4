package execution

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sunit/internal/domain"
	"sunit/internal/parser"
)

var errEarlyConstruct = errors.New("constructor stopped with the early-pass sentinel")

var _ Executor = (*Engine)(nil)

// Engine runs suites one after another, one instance per suite.
type Engine struct {
	runner   *Runner
	listener Listener
	logger   *slog.Logger
	failFast bool
}

// NewEngine creates a new Engine. A nil listener discards events.
func NewEngine(runner *Runner, listener Listener, logger *slog.Logger) *Engine {
	if runner == nil {
		runner = NewRunner(nil, logger)
	}
	if listener == nil {
		listener = NopListener{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{runner: runner, listener: listener, logger: logger}
}

// SetFailFast makes the engine stop scheduling tests after the first failed record.
// One-time teardown of the current suite still runs.
func (e *Engine) SetFailFast(failFast bool) {
	e.failFast = failFast
}

// Run executes suites in order. Cancellation is checked between tests and
// between cases; a started test always gets its teardown. The returned error
// is the context's error when ctx was cancelled, nil otherwise.
func (e *Engine) Run(ctx context.Context, suites []domain.SuiteDescriptor) (domain.Summary, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startTime := time.Now()
	var summary domain.Summary

	e.listener.RunStarted(suites)
	for i := range suites {
		if runCtx.Err() != nil {
			e.logger.Info("run stopped, skipping remaining suites", "remaining", len(suites)-i)
			break
		}
		summary.Suites++
		e.runSuite(runCtx, cancel, &suites[i], &summary)
	}
	summary.Duration = time.Since(startTime)
	e.listener.RunFinished(summary)

	return summary, ctx.Err()
}

func (e *Engine) runSuite(ctx context.Context, stop context.CancelFunc, suite *domain.SuiteDescriptor, summary *domain.Summary) {
	log := e.logger.With("suite", suite.Name)
	sm := newSuiteMachine(suite.Name)
	e.listener.SuiteStarted(*suite)

	created := e.runner.instantiate(suite.New)
	if !created.Passed || created.Early {
		if created.Early {
			created.Err = errEarlyConstruct
		}
		detail := e.runner.parser.Parse(signalFor(suite.Name, PhaseConstruct, created))
		e.abort(sm, summary, &SuiteFatalError{Suite: suite.Name, Phase: PhaseConstruct, Err: created.Err, Detail: detail})
		return
	}
	instance := created.Value

	e.transition(sm, StateOneTimeSetUp)
	if suite.OneTimeSetUp != nil {
		if detail, err := e.runner.hook(suite.Name, suite.OneTimeSetUp, instance, PhaseOneTimeSetUp); err != nil {
			e.abort(sm, summary, &SuiteFatalError{Suite: suite.Name, Phase: PhaseOneTimeSetUp, Err: err, Detail: detail})
			return
		}
	}
	e.transition(sm, StateReady)

	for _, test := range suite.Tests {
		if ctx.Err() != nil {
			log.Info("run stopped, skipping remaining tests")
			break
		}
		e.transition(sm, StateRunningTest)
		rec := e.runTest(ctx, suite, instance, test)
		e.transition(sm, StateReady)

		summary.Add(rec)
		e.listener.TestFinished(rec)
		if rec.Failed() && e.failFast {
			log.Info("fail-fast: stopping after failed test", "test", test.Name)
			stop()
		}
	}

	e.transition(sm, StateOneTimeTearDown)
	if suite.OneTimeTearDown != nil && sm.reachedReady {
		if detail, err := e.runner.hook(suite.Name, suite.OneTimeTearDown, instance, PhaseOneTimeTearDown); err != nil {
			log.Error("one-time teardown failed", "error", err)
			summary.TeardownFailures++
			summary.SuiteFailures = append(summary.SuiteFailures, detail)
			e.listener.TeardownFailed(suite.Name, detail)
		}
	}
	e.transition(sm, StateDisposed)
	log.Debug("suite disposed")
}

func (e *Engine) runTest(ctx context.Context, suite *domain.SuiteDescriptor, instance any, test domain.TestDescriptor) domain.ResultRecord {
	startTime := time.Now()
	rec := domain.ResultRecord{
		Suite: suite.Name,
		Test:  test.Name,
		Mode:  test.Mode,
	}

	if test.Mode == domain.Simple {
		inv := e.runner.Invoke(suite, instance, test.Name, 0, test.Invoke, nil)
		if inv.Failure != nil {
			rec.Outcome = domain.Failure
			rec.Failures = append(rec.Failures, *inv.Failure)
		}
		rec.Duration = time.Since(startTime)
		return rec
	}

	cases, err := e.runner.collectCases(suite, instance, test)
	if err != nil {
		e.logger.Error("case source failed", "suite", suite.Name, "test", test.Name, "error", err)
		rec.Err = err
		rec.Failures = append(rec.Failures, e.runner.parser.Parse(parser.Signal{Suite: suite.Name, Test: test.Name, Err: err}))
	}

	for i := range cases {
		if ctx.Err() != nil {
			e.logger.Info("run stopped, skipping remaining cases", "suite", suite.Name, "test", test.Name, "remaining", len(cases)-i)
			break
		}
		rec.Total++
		inv := e.runner.Invoke(suite, instance, test.Name, i+1, test.Invoke, &cases[i])
		if inv.Failure != nil {
			rec.Failures = append(rec.Failures, *inv.Failure)
			continue
		}
		rec.Successes++
	}
	if rec.Failed() {
		rec.Outcome = domain.Failure
	}
	rec.Duration = time.Since(startTime)
	return rec
}

func (e *Engine) abort(sm *suiteMachine, summary *domain.Summary, err *SuiteFatalError) {
	e.transition(sm, StateAborted)
	summary.AbortedSuites++
	summary.SuiteFailures = append(summary.SuiteFailures, err.Detail)
	e.logger.Error("suite aborted", "suite", err.Suite, "phase", err.Phase, "error", err.Err)
	e.listener.SuiteAborted(err)
}

func (e *Engine) transition(sm *suiteMachine, to SuiteState) {
	if err := sm.Transition(to); err != nil {
		e.logger.Error("suite state", "error", err)
		return
	}
	e.logger.Debug("suite state", "suite", sm.suite, "state", to.String())
}

func signalFor(suite string, phase Phase, res callResult) parser.Signal {
	return parser.Signal{Suite: suite, Phase: string(phase), Err: res.Err, Stack: res.Stack}
}
