package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sunit/internal/domain"
	"sunit/internal/execution"
	"sunit/internal/metrics"
	"sunit/internal/storage"
	"sunit/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	app *App
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(app *App) *RunCommand {
	return &RunCommand{app: app}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := rc.app.Config
	logger := rc.app.Logger

	st, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	var onlyFailed map[string]struct{}
	if cfg.Flags.OnlyFailed {
		last, err := st.Load(ctx)
		if errors.Is(err, storage.ErrNoResults) {
			color.New(color.FgYellow).Fprintln(rc.app.Out, "No previous results, nothing to rerun")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load last results: %w", err)
		}
		onlyFailed = last.FailedKeys()
		if len(onlyFailed) == 0 {
			color.New(color.FgGreen).Fprintln(rc.app.Out, "No failed tests in the last run")
			return nil
		}
	}

	reporter := rc.app.Reporter()
	collector := metrics.NewCollector()
	listeners := execution.MultiListener{reporter, collector}
	if cfg.Flags.Progress {
		listeners = append(listeners, ui.NewProgressBar(rc.app.Err))
	}

	summary, runErr := rc.app.Host(listeners, reporter, onlyFailed).RunAll(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if summary.Suites == 0 {
		color.New(color.FgYellow).Fprintln(rc.app.Out, "No tests to execute")
		return nil
	}

	report, err := rc.publish(ctx, st, collector, summary)
	if err != nil {
		return err
	}
	ui.NewFormatter(rc.app.Out).PrintSummary(report)

	if !summary.Passed() {
		if cfg.Flags.OpenFaills {
			if err := ui.NewErrorViewer(st).View(report); err != nil {
				return err
			}
		}
		return ErrTestsFailed
	}
	return runErr
}

// publish stores the report and writes the metrics file concurrently. It
// runs to completion even when the run itself was cancelled.
func (rc *RunCommand) publish(ctx context.Context, st storage.Storage, collector *metrics.Collector, summary domain.Summary) (*domain.TestResultsOutput, error) {
	var report *domain.TestResultsOutput
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))

	g.Go(func() error {
		saved, err := storage.Save(gctx, st, summary)
		if err != nil {
			return fmt.Errorf("failed to save test results: %w", err)
		}
		report = saved
		return nil
	})

	if path := rc.app.Config.GetMetricsPath(); path != "" {
		g.Go(func() error {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create metrics dir: %w", err)
			}
			return collector.WriteTextfile(path)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	rc.app.Logger.Info("run published", "run_id", report.Meta.RunID, "passed", summary.Passed())
	return report, nil
}
