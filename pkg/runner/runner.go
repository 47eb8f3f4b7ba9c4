// Package runner runs the sunit command line over a registry, so a test
// binary can be built from any package that registers suites.
//
//	func main() {
//		runner.Main(sunit.Default)
//	}
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sunit/internal/cli/commands"
	"sunit/pkg/sunit"
)

// Version is reported by --version and the version command.
var Version = "dev"

// Main runs the command line over reg and exits with its status.
func Main(reg *sunit.Registry) {
	os.Exit(Run(context.Background(), reg, os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command line given by args and returns the exit status:
// 0 when the command succeeded, 1 when tests failed or an error occurred.
func Run(ctx context.Context, reg *sunit.Registry, args []string, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := commands.NewApp(reg, out, errOut)
	defer app.Close()

	rootCmd := commands.NewRootCommand(app, Version)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
