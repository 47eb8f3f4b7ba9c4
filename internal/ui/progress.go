package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"sunit/internal/domain"
	"sunit/internal/execution"
)

// ProgressBar is a run listener showing test progress
type ProgressBar struct {
	execution.NopListener
	out       io.Writer
	bar       *progressbar.ProgressBar
	succeeded int
	failed    int
}

// NewProgressBar creates a progress bar writing to out (stderr when nil).
// The bar is sized when the run starts.
func NewProgressBar(out io.Writer) *ProgressBar {
	if out == nil {
		out = os.Stderr
	}
	return &ProgressBar{out: out}
}

// RunStarted creates the bar for the number of tests in the run.
func (p *ProgressBar) RunStarted(suites []domain.SuiteDescriptor) {
	count := 0
	for _, s := range suites {
		count += len(s.Tests)
	}
	p.succeeded, p.failed = 0, 0
	p.bar = progressbar.NewOptions(count,
		progressbar.OptionSetDescription(p.description()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// TestFinished advances the bar
func (p *ProgressBar) TestFinished(rec domain.ResultRecord) {
	if rec.Failed() {
		p.failed++
	} else {
		p.succeeded++
	}
	p.Update(p.succeeded, p.failed)
}

// RunFinished completes the bar
func (p *ProgressBar) RunFinished(domain.Summary) {
	p.Finish()
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(successCount, failCount int) {
	p.succeeded, p.failed = successCount, failCount
	if p.bar == nil {
		return
	}
	_ = p.bar.Set(successCount + failCount)
	p.bar.Describe(p.description())
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

// Counts returns the succeeded and failed test counts so far.
func (p *ProgressBar) Counts() (int, int) {
	return p.succeeded, p.failed
}

func (p *ProgressBar) description() string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[success: %d", p.succeeded) +
		" | " +
		color.RedString("failed: %d]", p.failed)
}
