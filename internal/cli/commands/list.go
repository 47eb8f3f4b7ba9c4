package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sunit/internal/storage"
	"sunit/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new ListCommand
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reporter := lc.app.Reporter()
	suites, errs := lc.app.Host(nil, reporter, nil).Selected()
	if len(errs) > 0 {
		reporter.DiscoveryErrors(errs)
	}

	if len(suites) == 0 {
		color.New(color.FgYellow).Fprintln(lc.app.Out, "No tests found")
		return nil
	}

	formatter := ui.NewFormatter(lc.app.Out)
	formatter.PrintSuiteList(suites, lc.lastFailed(ctx))
	if lc.app.Config.Flags.TestCases {
		formatter.PrintCaseList(suites)
	}
	return nil
}

// lastFailed returns the failed keys of the stored report, nil when there is none.
func (lc *ListCommand) lastFailed(ctx context.Context) map[string]struct{} {
	st, err := storage.Open(ctx, lc.app.Config, lc.app.Logger)
	if err != nil {
		lc.app.Logger.Warn("storage unavailable, failed tests not marked", "error", err)
		return nil
	}
	defer st.Close()

	last, err := st.Load(ctx)
	if err != nil {
		lc.app.Logger.Debug("no stored results", "error", err)
		return nil
	}
	return last.FailedKeys()
}
