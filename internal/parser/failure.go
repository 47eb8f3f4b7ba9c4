package parser

import (
	"errors"
	"strconv"
	"strings"

	"sunit/internal/domain"
	"sunit/pkg/sunit"
)

// maxStackLines bounds the stored stack trace.
const maxStackLines = 40

// frameworkFuncs are function prefixes skipped when locating the failing line.
var frameworkFuncs = []string{
	"runtime.",
	"runtime/",
	"sunit/internal/",
	"sunit/pkg/sunit.",
}

// FailureParser extracts messages, error chains and source locations from signals
type FailureParser struct{}

// NewFailureParser creates a new FailureParser
func NewFailureParser() *FailureParser {
	return &FailureParser{}
}

// Parse builds the failure detail of a signal.
func (p *FailureParser) Parse(sig Signal) domain.TestFailure {
	failure := domain.TestFailure{
		Suite:    sig.Suite,
		TestName: sig.Test,
		Case:     sig.Case,
		Phase:    sig.Phase,
	}
	if sig.Err != nil {
		failure.Message = sig.Err.Error()
		failure.ErrorChain = errorChain(sig.Err)
	}
	if len(sig.Stack) > 0 {
		failure.StackTrace = p.parseStack(string(sig.Stack))
		failure.File, failure.Line = p.locate(failure.StackTrace)
	}
	if failure.File == "" {
		var aerr *sunit.AssertionError
		if errors.As(sig.Err, &aerr) {
			failure.File, failure.Line = aerr.File, aerr.Line
		}
	}
	return failure
}

// parseStack keeps the frame lines of a goroutine dump, dropping the header
// and the capture machinery itself.
func (p *FailureParser) parseStack(stack string) []string {
	var lines []string
	for _, line := range strings.Split(stack, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "goroutine ") {
			continue
		}
		lines = append(lines, trimmed)
	}
	// Drop frames up to and including the panic call.
	for i, line := range lines {
		if strings.HasPrefix(line, "panic(") {
			if i+2 <= len(lines) {
				lines = lines[i+2:]
			}
			break
		}
	}
	if len(lines) > maxStackLines {
		lines = lines[:maxStackLines]
	}
	return lines
}

// locate returns the file:line of the first frame whose function does not
// belong to the runtime or the framework. Frames come as function/location pairs.
func (p *FailureParser) locate(frames []string) (string, int) {
	for i := 0; i+1 < len(frames); i++ {
		file, line, ok := parseFrameLocation(frames[i+1])
		if !ok {
			continue
		}
		fn := frames[i]
		i++
		if isFrameworkFunc(fn) {
			continue
		}
		return file, line
	}
	return "", 0
}

// parseFrameLocation parses "/path/to/file.go:123 +0x1d".
func parseFrameLocation(frame string) (string, int, bool) {
	if !strings.HasPrefix(frame, "/") && !(len(frame) > 2 && frame[1] == ':') {
		return "", 0, false
	}
	if i := strings.LastIndex(frame, " +0x"); i >= 0 {
		frame = frame[:i]
	}
	i := strings.LastIndex(frame, ":")
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(frame[i+1:])
	if err != nil {
		return "", 0, false
	}
	return frame[:i], n, true
}

func isFrameworkFunc(fn string) bool {
	for _, prefix := range frameworkFuncs {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}

func errorChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	if len(chain) < 2 {
		return nil
	}
	return chain
}
