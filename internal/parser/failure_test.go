package parser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunit/pkg/sunit"
)

const sampleStack = `goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
sunit/internal/execution.(*Runner).call.func1()
	/src/sunit/internal/execution/runner.go:88 +0x65
panic({0x10b2e40?, 0x1150a30?})
	/usr/local/go/src/runtime/panic.go:785 +0x132
sunit/pkg/sunit.argAs[...](...)
	/src/sunit/pkg/sunit/case.go:61 +0x99
myproject/tests.(*CaseTests).Divide(0xc000012345, {0xc0000a0000, 0x2, 0x2})
	/home/dev/myproject/tests/case_tests.go:42 +0x1d
sunit/pkg/sunit.(*Builder[...]).Method.func1({0x10c3f00, 0xc000012345}, {0xc0000a0000, 0x2, 0x2})
	/src/sunit/pkg/sunit/builder.go:40 +0x48
`

func TestFailureParser_Parse(t *testing.T) {
	p := NewFailureParser()

	t.Run("returned error", func(t *testing.T) {
		failure := p.Parse(Signal{Suite: "SimpleTests", Test: "ErrorTest", Err: errors.New("false is not true")})

		assert.Equal(t, "SimpleTests", failure.Suite)
		assert.Equal(t, "ErrorTest", failure.TestName)
		assert.Equal(t, "false is not true", failure.Message)
		assert.Nil(t, failure.ErrorChain)
		assert.Empty(t, failure.StackTrace)
		assert.Equal(t, "SimpleTests.ErrorTest", failure.Key())
	})

	t.Run("wrapped error keeps the chain", func(t *testing.T) {
		inner := errors.New("connection refused")
		failure := p.Parse(Signal{Suite: "S", Test: "T", Case: 2, Err: fmt.Errorf("open db: %w", inner)})

		assert.Equal(t, 2, failure.Case)
		assert.Equal(t, []string{"open db: connection refused", "connection refused"}, failure.ErrorChain)
	})

	t.Run("panic stack is trimmed and located", func(t *testing.T) {
		failure := p.Parse(Signal{Suite: "CaseTests", Test: "Divide", Err: errors.New("boom"), Stack: []byte(sampleStack)})

		require.NotEmpty(t, failure.StackTrace)
		assert.Equal(t, "sunit/pkg/sunit.argAs[...](...)", failure.StackTrace[0])
		assert.Equal(t, "/home/dev/myproject/tests/case_tests.go", failure.File)
		assert.Equal(t, 42, failure.Line)
	})

	t.Run("returned assertion is located", func(t *testing.T) {
		err := fmt.Errorf("check total: %w", &sunit.AssertionError{Msg: "false is not true", File: "/home/dev/myproject/tests/simple_tests.go", Line: 17})
		failure := p.Parse(Signal{Suite: "SimpleTests", Test: "ErrorTest", Err: err})

		assert.Equal(t, "/home/dev/myproject/tests/simple_tests.go", failure.File)
		assert.Equal(t, 17, failure.Line)
		assert.Empty(t, failure.StackTrace)
	})

	t.Run("stack location wins over the assertion", func(t *testing.T) {
		err := &sunit.AssertionError{Msg: "boom", File: "/elsewhere.go", Line: 1}
		failure := p.Parse(Signal{Suite: "CaseTests", Test: "Divide", Err: err, Stack: []byte(sampleStack)})

		assert.Equal(t, "/home/dev/myproject/tests/case_tests.go", failure.File)
	})

	t.Run("suite phase", func(t *testing.T) {
		failure := p.Parse(Signal{Suite: "SetupTests", Phase: "OneTimeSetUp", Err: errors.New("no db")})

		assert.Equal(t, "OneTimeSetUp", failure.Phase)
		assert.Equal(t, "SetupTests.", failure.Key())
	})
}

func TestParseFrameLocation(t *testing.T) {
	tests := []struct {
		frame    string
		wantFile string
		wantLine int
		wantOK   bool
	}{
		{frame: "/a/b/c.go:12 +0x1d", wantFile: "/a/b/c.go", wantLine: 12, wantOK: true},
		{frame: "/a/b/c.go:7", wantFile: "/a/b/c.go", wantLine: 7, wantOK: true},
		{frame: `C:/work/c.go:3 +0x10`, wantFile: "C:/work/c.go", wantLine: 3, wantOK: true},
		{frame: "main.main()", wantOK: false},
		{frame: "/a/b/c.go:notanumber", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.frame, func(t *testing.T) {
			file, line, ok := parseFrameLocation(tt.frame)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantFile, file)
			assert.Equal(t, tt.wantLine, line)
		})
	}
}
