package ui

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"sunit/internal/domain"
	"sunit/internal/storage"
)

// maxStackLines is the number of stack frames shown before truncating.
const maxStackLines = 10

var _ Viewer = (*ErrorViewer)(nil)

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	b := newFailureBrowser(results, func() error {
		return ev.storage.SaveOutput(context.Background(), results)
	})
	if err := b.app.SetRoot(b.layout(), true).SetFocus(b.list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return b.saveErr
}

// failureBrowser is the widget tree of the viewer: a failure list on the
// left, the selected failure on the right.
type failureBrowser struct {
	results *domain.TestResultsOutput
	save    func() error
	saveErr error

	app     *tview.Application
	header  *tview.TextView
	list    *tview.List
	stats   *tview.TextView
	details *tview.TextView
}

func newFailureBrowser(results *domain.TestResultsOutput, save func() error) *failureBrowser {
	b := &failureBrowser{
		results: results,
		save:    save,
		app:     tview.NewApplication(),
		header:  tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true),
		list:    tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true),
		stats:   tview.NewTextView().SetDynamicColors(true).SetWrap(false).SetWordWrap(false),
		details: tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetWordWrap(true),
	}

	for i := range results.Details {
		b.list.AddItem(listItemText(results.Details[i], i), "", 0, nil)
	}
	b.list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	b.list.SetChangedFunc(func(int, string, string, rune) { b.showSelected() })
	b.list.SetInputCapture(b.listKeys)
	b.details.SetInputCapture(b.detailKeys)

	b.refreshHeader()
	b.showSelected()
	return b
}

// layout is the header row over a 1/3 list and 2/3 detail split.
func (b *failureBrowser) layout() tview.Primitive {
	detailPane := tview.NewFlex().
		AddItem(b.details, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)
	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.stats, 3, 0, false).
		AddItem(detailPane, 0, 1, false)
	body := tview.NewFlex().
		AddItem(b.list, 0, 1, true).
		AddItem(right, 0, 2, false)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)
}

func (b *failureBrowser) refreshHeader() {
	text := fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
		len(b.results.Details), b.results.Unresolved())
	if b.saveErr != nil {
		text += fmt.Sprintf("| [red]save failed: %v[white] ", b.saveErr)
	}
	b.header.SetText(text)
}

func (b *failureBrowser) showSelected() {
	index := b.list.GetCurrentItem()
	if index < 0 || index >= len(b.results.Details) {
		return
	}
	failure := b.results.Details[index]
	b.stats.SetText(formatFailureStats(failure, index+1))
	b.details.SetText(formatFailureDetails(failure))
}

// toggleResolved flips the resolved flag of a failure and persists the report.
func (b *failureBrowser) toggleResolved(index int) {
	if index < 0 || index >= len(b.results.Details) {
		return
	}
	failure := &b.results.Details[index]
	failure.Resolved = !failure.Resolved
	b.list.SetItemText(index, listItemText(*failure, index), "")

	b.saveErr = b.save()
	b.refreshHeader()
	b.showSelected()
}

func (b *failureBrowser) listKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		b.app.SetFocus(b.details)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	case tcell.KeyRune:
		if r := event.Rune(); r == 'r' || r == 'R' {
			b.toggleResolved(b.list.GetCurrentItem())
			return nil
		}
	}
	return event
}

func (b *failureBrowser) detailKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft, tcell.KeyEsc:
		b.app.SetFocus(b.list)
		return nil
	case tcell.KeyCtrlC:
		b.app.Stop()
		return nil
	}
	return event
}

// listItemText is the list entry of a failure, grayed out once resolved.
func listItemText(failure domain.TestFailure, index int) string {
	name := failureTitle(failure)
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(name))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

func failureTitle(failure domain.TestFailure) string {
	name := failure.Suite
	if failure.TestName != "" {
		name += " " + failure.TestName
	}
	switch {
	case failure.Case > 0:
		name += fmt.Sprintf(" #%d", failure.Case)
	case failure.Phase != "":
		name += " (" + failure.Phase + ")"
	}
	return name
}

// formatFailureDetails formats a test failure for display using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure domain.TestFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ Test: %s[white]\n\n", tview.Escape(failureTitle(failure)))

	if failure.Phase != "" {
		fmt.Fprintf(w, "[cyan]Phase:\t%s[white]\n", failure.Phase)
	}
	if failure.Case > 0 {
		fmt.Fprintf(w, "[cyan]Case:\t%d[white]\n", failure.Case)
	}
	if failure.File != "" && failure.Line > 0 {
		fmt.Fprintf(w, "[yellow]Location:\t%s:%d[white]\n", failure.File, failure.Line)
	}
	fmt.Fprintf(w, "\n")

	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if len(failure.ErrorChain) > 0 {
		fmt.Fprintf(w, "[yellow]Error Chain:[white]\n")
		for i, e := range failure.ErrorChain {
			fmt.Fprintf(w, "  %d. %s\n", i+1, tview.Escape(e))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(failure.StackTrace) > 0 {
		fmt.Fprintf(w, "[yellow]Stack Trace:[white]\n")
		for i, trace := range failure.StackTrace {
			if i < maxStackLines {
				fmt.Fprintf(w, "  %s\n", tview.Escape(trace))
			}
		}
		if len(failure.StackTrace) > maxStackLines {
			fmt.Fprintf(w, "  [gray]... and %d more lines[white]\n", len(failure.StackTrace)-maxStackLines)
		}
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the stats header for a test failure
func formatFailureStats(failure domain.TestFailure, number int) string {
	suite := failure.Suite
	if suite == "" {
		suite = "Unknown suite"
	}
	test := failure.TestName
	if test == "" {
		test = fmt.Sprintf("Test %d", number)
	}
	line := fmt.Sprintf("[cyan]suite:[white] [yellow]%s[white]::[yellow]%s[white]", tview.Escape(suite), tview.Escape(test))
	if failure.Case > 0 {
		line += fmt.Sprintf(" [cyan]case:[white] [yellow]%d[white]", failure.Case)
	}
	return line + "\n"
}
