package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sunit/internal/config"
)

// InitCommand handles the init command
type InitCommand struct {
	app   *App
	force *bool
}

// NewInitCommand creates a new InitCommand
func NewInitCommand(app *App) *InitCommand {
	return &InitCommand{app: app}
}

// Execute writes the default configuration to the project directory.
func (ic *InitCommand) Execute(cmd *cobra.Command, _ []string) error {
	targetPath := filepath.Join(ic.app.Config.ProjectPath, config.DefaultConfigFile)

	if ic.force == nil || !*ic.force {
		if _, err := os.Stat(targetPath); err == nil {
			return fmt.Errorf("failed to write config file: %s already exists", targetPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	data, err := yaml.Marshal(config.New())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(targetPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cmd.Printf("Wrote %s\n", targetPath)
	return nil
}
