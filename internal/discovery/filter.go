package discovery

import (
	"path/filepath"
	"strings"

	"sunit/internal/domain"
)

// Filter narrows discovered suites down to the tests a run should execute
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the tests whose suite name or "Suite.Test" name matches
// the pattern. Supports patterns like "Case*", "*.Expected*" or "Setup".
// Suites left without tests are dropped.
func (f *Filter) FilterByName(suites []domain.SuiteDescriptor, pattern string) []domain.SuiteDescriptor {
	if pattern == "" {
		return suites
	}

	var filtered []domain.SuiteDescriptor
	for _, suite := range suites {
		if matchName(suite.Name, pattern) {
			filtered = append(filtered, suite)
			continue
		}
		if kept, ok := keepTests(suite, func(t domain.TestDescriptor) bool {
			return matchName(domain.QualifiedName(suite.Name, t.Name), pattern) || matchName(t.Name, pattern)
		}); ok {
			filtered = append(filtered, kept)
		}
	}

	return filtered
}

// OnlyFailed keeps the tests listed in failed (keyed "Suite.Test"). A key with
// an empty test name ("Suite.") keeps the whole suite.
func (f *Filter) OnlyFailed(suites []domain.SuiteDescriptor, failed map[string]struct{}) []domain.SuiteDescriptor {
	var filtered []domain.SuiteDescriptor
	for _, suite := range suites {
		if _, ok := failed[domain.QualifiedName(suite.Name, "")]; ok {
			filtered = append(filtered, suite)
			continue
		}
		if kept, ok := keepTests(suite, func(t domain.TestDescriptor) bool {
			_, ok := failed[domain.QualifiedName(suite.Name, t.Name)]
			return ok
		}); ok {
			filtered = append(filtered, kept)
		}
	}
	return filtered
}

func keepTests(suite domain.SuiteDescriptor, keep func(domain.TestDescriptor) bool) (domain.SuiteDescriptor, bool) {
	var tests []domain.TestDescriptor
	for _, t := range suite.Tests {
		if keep(t) {
			tests = append(tests, t)
		}
	}
	if len(tests) == 0 {
		return suite, false
	}
	suite.Tests = tests
	return suite, true
}

func matchName(name, pattern string) bool {
	// Try to match using filepath.Match (supports * and ? wildcards)
	matched, err := filepath.Match(pattern, name)
	if err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible substring match for patterns like "*Case*"
	if strings.Contains(pattern, "*") {
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
