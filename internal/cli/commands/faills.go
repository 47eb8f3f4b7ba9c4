package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sunit/internal/storage"
	"sunit/internal/ui"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	app *App
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(app *App) *FaillsCommand {
	return &FaillsCommand{app: app}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := storage.Open(ctx, fc.app.Config, fc.app.Logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	results, err := st.Load(ctx)
	if errors.Is(err, storage.ErrNoResults) {
		color.New(color.FgYellow).Fprintln(fc.app.Out, "No test results yet, run the tests first")
		return nil
	}
	if err != nil {
		return err
	}

	return ui.NewErrorViewer(st).View(results)
}
