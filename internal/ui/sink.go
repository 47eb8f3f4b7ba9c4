package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Sink receives formatted result lines at two severities.
type Sink interface {
	Info(msg string)
	Error(msg string)
}

// ConsoleSink prints info lines to one writer and error lines to another.
type ConsoleSink struct {
	mu   sync.Mutex
	out  io.Writer
	err  io.Writer
	ok   *color.Color
	fail *color.Color
}

// NewConsoleSink creates a ConsoleSink. Nil writers default to stdout and stderr.
func NewConsoleSink(out, errOut io.Writer, useColor bool) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	s := &ConsoleSink{
		out:  out,
		err:  errOut,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
	}
	if useColor {
		s.ok.EnableColor()
		s.fail.EnableColor()
	} else {
		s.ok.DisableColor()
		s.fail.DisableColor()
	}
	return s
}

func (s *ConsoleSink) Info(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ok.Fprintln(s.out, msg)
}

func (s *ConsoleSink) Error(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail.Fprintln(s.err, msg)
}

// LogSink forwards lines to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Info(msg string)  { s.logger.Info(msg) }
func (s *LogSink) Error(msg string) { s.logger.Error(msg) }

// MultiSink forwards every line to each sink in order.
type MultiSink []Sink

func (m MultiSink) Info(msg string) {
	for _, s := range m {
		s.Info(msg)
	}
}

func (m MultiSink) Error(msg string) {
	for _, s := range m {
		s.Error(msg)
	}
}

// MemorySink keeps lines in memory, prefixed with their severity.
type MemorySink struct {
	mu    sync.Mutex
	Lines []string
}

func (s *MemorySink) Info(msg string)  { s.add("INFO", msg) }
func (s *MemorySink) Error(msg string) { s.add("ERROR", msg) }

func (s *MemorySink) add(level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lines = append(s.Lines, fmt.Sprintf("%s %s", level, msg))
}
