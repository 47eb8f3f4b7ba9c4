package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sunit/internal/cli"
	"sunit/internal/config"
	"sunit/internal/execution"
	"sunit/internal/host"
	"sunit/internal/ui"
	"sunit/pkg/sunit"
)

// ErrTestsFailed is returned by run when a test, case or suite failed.
var ErrTestsFailed = errors.New("tests failed")

// App carries what every command needs once the configuration is loaded.
type App struct {
	Registry *sunit.Registry
	Viper    *viper.Viper
	Config   *config.Config
	Logger   *slog.Logger
	Out      io.Writer
	Err      io.Writer

	closeLog io.Closer
}

// NewApp creates an App over reg with the default configuration.
func NewApp(reg *sunit.Registry, out, errOut io.Writer) *App {
	v := viper.New()
	config.Prepare(v)
	return &App{
		Registry: reg,
		Viper:    v,
		Config:   config.New(),
		Logger:   slog.Default(),
		Out:      out,
		Err:      errOut,
	}
}

// Load reads the configuration and opens the log file.
func (a *App) Load(flags *cli.Flags) error {
	cfg, err := config.Load(a.Viper)
	if err != nil {
		return err
	}
	cfg.Flags = flags.ToConfigFlags()
	a.Config = cfg

	if a.closeLog != nil {
		_ = a.closeLog.Close()
	}
	a.Logger, a.closeLog = cli.NewLogger(cfg)
	slog.SetDefault(a.Logger)

	if cfg.Flags.NoColor {
		color.NoColor = true
	}
	a.Logger.Debug("config loaded", "project", cfg.ProjectPath, "storage", cfg.Storage.Driver)
	return nil
}

// Close releases the log file.
func (a *App) Close() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog.Close()
}

// UseColor reports whether console output is coloured.
func (a *App) UseColor() bool {
	return !a.Config.Flags.NoColor && !color.NoColor
}

// Reporter returns a result reporter writing to the console and the log.
func (a *App) Reporter() *ui.Reporter {
	return ui.NewReporter(ui.MultiSink{
		ui.NewConsoleSink(a.Out, a.Err, a.UseColor()),
		ui.NewLogSink(a.Logger),
	})
}

// Host returns a host over the registry running with listener.
func (a *App) Host(listener execution.Listener, reporter host.DiscoveryReporter, onlyFailed map[string]struct{}) *host.Host {
	engine := execution.NewEngine(execution.NewRunner(nil, a.Logger), listener, a.Logger)
	engine.SetFailFast(a.Config.Flags.FailFast)
	return host.New(a.Registry, engine, reporter, a.Logger, host.Options{
		Filter:     a.Config.Flags.Filter,
		OnlyFailed: onlyFailed,
		Strict:     a.Config.Discovery.Strict,
	})
}

// Commands holds all CLI commands
type Commands struct {
	app     *App
	Run     *RunCommand
	List    *ListCommand
	Migrate *MigrateCommand
	Faills  *FaillsCommand
	Init    *InitCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(app *App) *Commands {
	return &Commands{
		app:     app,
		Run:     NewRunCommand(app),
		List:    NewListCommand(app),
		Migrate: NewMigrateCommand(app),
		Faills:  NewFaillsCommand(app),
		Init:    NewInitCommand(app),
	}
}

// NewRootCommand builds the sunit command tree over app.
func NewRootCommand(app *App, version string) *cobra.Command {
	var flags cli.Flags

	rootCmd := &cobra.Command{
		Use:   "sunit",
		Short: "Suite-based unit test runner",
		Long: `Discover the registered test suites and run them one after another,
reporting a result line per test and storing the run report.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return app.Load(&flags)
		},
	}
	rootCmd.SetOut(app.Out)
	rootCmd.SetErr(app.Err)

	rootCmd.PersistentFlags().StringVarP(&flags.ProjectPath, "project", "C", config.DefaultProjectPath, "Project directory holding sunit.yaml, .env and the results")
	bindFlagToConfig(app.Viper, rootCmd.PersistentFlags().Lookup("project"), config.KeyProjectPath)
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable coloured output")

	NewCommands(app).Register(rootCmd, &flags)
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	v := c.app.Viper

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the registered test suites",
		Long:  "Discover the registered suites and execute their tests sequentially",
		Args:  cobra.NoArgs,
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'Calc*' or '*.Add*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that failed in the last run")
	runCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar on stderr")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	runCmd.Flags().StringVarP(&flags.OutputDir, "output", "o", config.DefaultOutputJSONDir, "Directory of the JSON results file")
	bindFlagToConfig(v, runCmd.Flags().Lookup("output"), config.KeyOutputDir)
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	bindFlagToConfig(v, runCmd.Flags().Lookup("metrics-file"), config.KeyMetricsFile)
	runCmd.Flags().BoolVar(&flags.Strict, "strict", false, "Fail the run when discovery skipped a test")
	bindFlagToConfig(v, runCmd.Flags().Lookup("strict"), config.KeyDiscoveryStrict)
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Discover and list the registered suites and tests without executing them",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., 'Calc*' or '*.Add*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List the cases of parameterized tests")
	rootCmd.AddCommand(listCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the results database and tables",
		Long:  "Create the database and the run report tables of the configured SQL storage driver",
		Args:  cobra.NoArgs,
		RunE:  c.Migrate.Execute,
	}
	rootCmd.AddCommand(migrateCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Faills.Execute,
	}
	rootCmd.AddCommand(faillsCmd)

	// Init command
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default sunit.yaml configuration file",
		Long: `Create a sunit.yaml in the project directory populated with the
defaults so it can be edited manually.`,
		Args: cobra.NoArgs,
		RunE: c.Init.Execute,
	}
	initCmd.Flags().BoolVar(&flags.Force, "force", false, "Overwrite an existing sunit.yaml")
	c.Init.force = &flags.Force
	rootCmd.AddCommand(initCmd)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(v.BindPFlag(key, flag))
}
