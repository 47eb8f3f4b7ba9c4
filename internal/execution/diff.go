package execution

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"sunit/pkg/sunit"
)

// mismatch is the failure of a case whose return value differs from the expected one.
func mismatch(expected, actual any) error {
	msg := fmt.Sprintf("expected %v (%T), got %v (%T)", expected, expected, actual, actual)
	if d := diff(expected, actual); d != "" {
		msg += "\n\nDiff:\n" + d
	}
	return sunit.Failf("%s", msg)
}

// diff returns a unified diff of two multi-line strings, empty for anything else.
func diff(expected, actual any) string {
	e, ok := expected.(string)
	if !ok {
		return ""
	}
	a, ok := actual.(string)
	if !ok {
		return ""
	}
	if !strings.Contains(e, "\n") && !strings.Contains(a, "\n") {
		return ""
	}

	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(e),
		B:        difflib.SplitLines(a),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return out
}
