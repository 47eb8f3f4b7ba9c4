package ui

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleSink_SplitsStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	sink := NewConsoleSink(&out, &errOut, false)

	sink.Info("passed")
	sink.Error("failed")

	assert.Equal(t, "passed\n", out.String())
	assert.Equal(t, "failed\n", errOut.String())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewLogSink(logger).Error("Test 'S T' finished with Error")

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `msg="Test 'S T' finished with Error"`)
}

func TestMultiSink(t *testing.T) {
	a, b := &MemorySink{}, &MemorySink{}
	MultiSink{a, b}.Info("line")

	assert.Equal(t, []string{"INFO line"}, a.Lines)
	assert.Equal(t, a.Lines, b.Lines)
}
