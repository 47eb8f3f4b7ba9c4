// Package host owns the discovered suites of a registry and triggers runs.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"sunit/internal/discovery"
	"sunit/internal/domain"
	"sunit/internal/execution"
	"sunit/pkg/sunit"
)

// ErrStrictDiscovery is returned by RunAll in strict mode when discovery
// skipped at least one test.
var ErrStrictDiscovery = errors.New("discovery reported errors")

// DiscoveryReporter receives the errors of a discovery pass.
type DiscoveryReporter interface {
	DiscoveryErrors(errs []error)
}

// Options narrow and police a run.
type Options struct {
	// Filter is a name pattern, see discovery.Filter.FilterByName.
	Filter string
	// OnlyFailed, when non-nil, keeps only the tests keyed "Suite.Test" in it.
	OnlyFailed map[string]struct{}
	// Strict fails the run when discovery skipped a test.
	Strict bool
}

// Host caches discovery results and runs them on demand.
type Host struct {
	registry   *sunit.Registry
	discoverer *discovery.Discoverer
	executor   execution.Executor
	filter     *discovery.Filter
	reporter   DiscoveryReporter
	logger     *slog.Logger
	opts       Options

	// runMu serializes runs; mu guards the cache.
	runMu      sync.Mutex
	mu         sync.Mutex
	cached     bool
	generation uint64
	suites     []domain.SuiteDescriptor
	errs       []error
}

// New creates a Host over reg. reporter may be nil.
func New(reg *sunit.Registry, executor execution.Executor, reporter DiscoveryReporter, logger *slog.Logger, opts Options) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		registry:   reg,
		discoverer: discovery.NewDiscoverer(logger),
		executor:   executor,
		filter:     discovery.NewFilter(),
		reporter:   reporter,
		logger:     logger,
		opts:       opts,
	}
}

// Reload drops the cached descriptors. The next run or Suites call rediscovers.
func (h *Host) Reload() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cached = false
	h.suites = nil
	h.errs = nil
	h.logger.Debug("discovery cache cleared")
}

// Suites returns the discovered suites, unfiltered, and the discovery errors.
func (h *Host) Suites() ([]domain.SuiteDescriptor, []error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.discover()
}

// Selected returns the suites a run would execute under the host options.
func (h *Host) Selected() ([]domain.SuiteDescriptor, []error) {
	suites, errs := h.Suites()
	return h.apply(suites), errs
}

// RunAll discovers when needed, applies the options and runs the selected suites.
func (h *Host) RunAll(ctx context.Context) (domain.Summary, error) {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	suites, errs := h.Suites()
	if len(errs) > 0 {
		if h.reporter != nil {
			h.reporter.DiscoveryErrors(errs)
		}
		if h.opts.Strict {
			return domain.Summary{}, fmt.Errorf("%w: %w", ErrStrictDiscovery, errors.Join(errs...))
		}
	}

	selected := h.apply(suites)
	h.logger.Info("running tests", "suites", len(selected), "discovered", len(suites))
	return h.executor.Run(ctx, selected)
}

// discover must be called with mu held.
func (h *Host) discover() ([]domain.SuiteDescriptor, []error) {
	gen := h.registry.Generation()
	if h.cached && gen == h.generation {
		return h.suites, h.errs
	}
	if h.cached {
		h.logger.Debug("registry changed, rediscovering", "generation", gen)
	}
	h.suites, h.errs = h.discoverer.Discover(h.registry)
	h.generation = gen
	h.cached = true
	return h.suites, h.errs
}

func (h *Host) apply(suites []domain.SuiteDescriptor) []domain.SuiteDescriptor {
	if h.opts.Filter != "" {
		suites = h.filter.FilterByName(suites, h.opts.Filter)
	}
	if h.opts.OnlyFailed != nil {
		suites = h.filter.OnlyFailed(suites, h.opts.OnlyFailed)
	}
	return suites
}
