package commands

import (
	"context"

	"github.com/spf13/cobra"

	"sunit/internal/migration"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	app *App
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand(app *App) *MigrateCommand {
	return &MigrateCommand{app: app}
}

// Execute runs the command
func (mc *MigrateCommand) Execute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger := mc.app.Config, mc.app.Logger
	return migration.NewSchemaMigrator(cfg, migration.NewDatabaseManager(cfg, logger), logger).Run(ctx)
}
