package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunit/internal/config"
)

func TestFlags_ToConfigFlags(t *testing.T) {
	f := Flags{Filter: "Calc*", FailFast: true, OnlyFailed: true, Verbose: true, OutputDir: "ignored"}

	got := f.ToConfigFlags()

	assert.Equal(t, config.Flags{Filter: "Calc*", FailFast: true, OnlyFailed: true, Verbose: true}, got)
}

func TestNewLogger_WritesUnderProject(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.Flags.Verbose = true

	logger, closer := NewLogger(cfg)
	logger.Debug("discovery finished", "suites", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(cfg.ProjectPath, config.DefaultLogFilename))
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=DEBUG")
	assert.Contains(t, string(data), "suites=2")
}
