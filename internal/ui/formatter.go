package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"sunit/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter. A nil writer means stdout.
func NewFormatter(out io.Writer) *Formatter {
	if out == nil {
		out = os.Stdout
	}
	return &Formatter{out: out}
}

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// PrintSummary displays the statistics of a stored run report and its failures
func (f *Formatter) PrintSummary(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Suites", strconv.Itoa(meta.TotalSuites), white},
		{"Aborted Suites", strconv.Itoa(meta.AbortedSuites), red},
		{"Teardown Failures", strconv.Itoa(meta.TeardownFails), red},
		{"Tests", strconv.Itoa(meta.TotalTests), white},
		{"Passed Tests", strconv.Itoa(meta.PassedTests), green},
		{"Failed Tests", strconv.Itoa(meta.FailedTests), red},
		{"Test Cases", strconv.Itoa(meta.TotalCases), white},
		{"Failed Test Cases", strconv.Itoa(meta.FailedCases), red},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Timestamp", meta.Timestamp, white},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.FailedTests == 0 && meta.AbortedSuites == 0 && meta.TeardownFails == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d test(s) failed, %d suite(s) aborted, %d teardown failure(s)\n",
		meta.FailedTests, meta.AbortedSuites, meta.TeardownFails)
	fmt.Fprintln(f.out)
	f.printFailureTree(output.Details)
}

// TreeNode is a suite or test in the failure tree
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.TestFailure
}

func newTreeNode(name string) *TreeNode {
	return &TreeNode{Name: name, Children: make(map[string]*TreeNode)}
}

// printFailureTree prints failures grouped by suite, then test.
func (f *Formatter) printFailureTree(failures []domain.TestFailure) {
	if len(failures) == 0 {
		return
	}

	root := newTreeNode("")
	for _, failure := range failures {
		suite := root.Children[failure.Suite]
		if suite == nil {
			suite = newTreeNode(failure.Suite)
			root.Children[failure.Suite] = suite
		}
		if failure.TestName == "" {
			suite.Failures = append(suite.Failures, failure)
			continue
		}
		test := suite.Children[failure.TestName]
		if test == nil {
			test = newTreeNode(failure.TestName)
			suite.Children[failure.TestName] = test
		}
		test.Failures = append(test.Failures, failure)
	}

	for _, suiteName := range sortedKeys(root.Children) {
		suite := root.Children[suiteName]
		yellow.Fprintln(f.out, suite.Name)
		f.printFailures("  ", suite.Failures, len(suite.Children) == 0)

		tests := sortedKeys(suite.Children)
		for i, testName := range tests {
			last := i == len(tests)-1
			test := suite.Children[testName]
			if last {
				cyan.Fprintf(f.out, "  └── %s\n", test.Name)
				f.printFailures("      ", test.Failures, true)
			} else {
				cyan.Fprintf(f.out, "  ├── %s\n", test.Name)
				f.printFailures("  │   ", test.Failures, true)
			}
		}
	}
}

func (f *Formatter) printFailures(prefix string, failures []domain.TestFailure, closes bool) {
	for i, failure := range failures {
		connector := "├── "
		if closes && i == len(failures)-1 {
			connector = "└── "
		}
		red.Fprintf(f.out, "%s%s%s\n", prefix, connector, failureLabel(failure))
	}
}

func failureLabel(failure domain.TestFailure) string {
	msg := failure.Message
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i] + " ..."
	}
	switch {
	case failure.Case > 0:
		return fmt.Sprintf("case %d: %s", failure.Case, msg)
	case failure.Phase != "":
		return fmt.Sprintf("%s: %s", failure.Phase, msg)
	default:
		return msg
	}
}

func sortedKeys(m map[string]*TreeNode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrintSuiteList prints the discovered suites as a table.
// failed is optional; tests in this set (from the last run) are marked with [F].
func (f *Formatter) PrintSuiteList(suites []domain.SuiteDescriptor, failed map[string]struct{}) {
	tests := 0
	for _, s := range suites {
		tests += len(s.Tests)
	}
	green.Fprintf(f.out, "Found %d suite(s) with %d test(s):\n\n", len(suites), tests)

	table := tablewriter.NewWriter(f.out)
	table.SetHeader([]string{"Suite", "Test", "Mode", "Cases", "Sources", "Hooks"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, s := range suites {
		hooks := hookNames(s)
		if len(s.Tests) == 0 {
			table.Append([]string{s.Name, "(no tests)", "", "", "", hooks})
			continue
		}
		for i, t := range s.Tests {
			name := t.Name
			if _, ok := failed[domain.QualifiedName(s.Name, t.Name)]; ok {
				name += " [F]"
			}
			suiteCell := s.Name
			if i > 0 {
				suiteCell = ""
				hooks = ""
			}
			cases := ""
			if t.Mode == domain.Parameterized {
				cases = strconv.Itoa(len(t.Cases))
			}
			table.Append([]string{suiteCell, name, t.Mode.String(), cases, sourceNames(t.Sources), hooks})
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Suites %d", len(suites)),
		fmt.Sprintf("Tests %d", tests),
		"", "", "", "",
	})
	table.Render()
}

func hookNames(s domain.SuiteDescriptor) string {
	var names []string
	for _, h := range []struct {
		role string
		hook *domain.Hook
	}{
		{"OneTimeSetUp", s.OneTimeSetUp},
		{"SetUp", s.SetUp},
		{"TearDown", s.TearDown},
		{"OneTimeTearDown", s.OneTimeTearDown},
	} {
		if h.hook != nil {
			names = append(names, h.role+"="+h.hook.Name)
		}
	}
	return strings.Join(names, " ")
}

func sourceNames(sources []domain.CaseSource) string {
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.String())
	}
	return strings.Join(names, ", ")
}

// PrintCaseList prints the inline cases and case sources of each parameterized test.
// Source cases are only known once the test runs.
func (f *Formatter) PrintCaseList(suites []domain.SuiteDescriptor) {
	fmt.Fprintln(f.out)
	for _, s := range suites {
		for _, t := range s.Tests {
			if t.Mode != domain.Parameterized {
				continue
			}
			cyan.Fprintln(f.out, domain.QualifiedName(s.Name, t.Name))
			for i, c := range t.Cases {
				fmt.Fprintf(f.out, "  #%d %s\n", i+1, c)
			}
			for _, src := range t.Sources {
				yellow.Fprintf(f.out, "  + cases from %s\n", src)
			}
		}
	}
}
