package cli

import "sunit/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	Filter      string
	FailFast    bool
	OnlyFailed  bool
	Progress    bool
	NoColor     bool
	Verbose     bool
	OpenFaills  bool
	TestCases   bool
	OutputDir   string
	MetricsFile string
	Strict      bool
	Force       bool
}

// ToConfigFlags converts CLI flags to config flags. Flags bound to config
// keys (project, output, metrics file, strict) reach the config through viper.
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Filter:     f.Filter,
		FailFast:   f.FailFast,
		OnlyFailed: f.OnlyFailed,
		Progress:   f.Progress,
		NoColor:    f.NoColor,
		Verbose:    f.Verbose,
		OpenFaills: f.OpenFaills,
		TestCases:  f.TestCases,
	}
}
