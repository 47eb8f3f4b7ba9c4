package sunit

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertions(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"equal passes", AreEqual(5, 5), ""},
		{"equal slices by value", AreEqual([]int{1, 2}, []int{1, 2}), ""},
		{"equal fails", AreEqual(5, 6), "5 does not equal 6"},
		{"equal is type sensitive", AreEqual(5, int64(5)), "5 does not equal 5"},
		{"not equal passes", AreNotEqual("a", "b"), ""},
		{"not equal fails", AreNotEqual("a", "a"), "a is equal to a"},
		{"true passes", True(true), ""},
		{"true fails", True(false), "false is not true"},
		{"false passes", False(false), ""},
		{"false fails", False(true), "true is not false"},
		{"no error passes", NoError(nil), ""},
		{"no error fails", NoError(errors.New("boom")), "unexpected error: boom"},
		{"fail", Fail(), "Fail"},
		{"failf", Failf("got %d", 3), "got 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantMsg == "" {
				assert.NoError(t, tt.err)
				return
			}
			require.Error(t, tt.err)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrAssertion)
			var aerr *AssertionError
			assert.ErrorAs(t, tt.err, &aerr)
		})
	}
}

func callerLine() int {
	_, _, line, _ := runtime.Caller(1)
	return line
}

func TestAssertions_RecordCallerLocation(t *testing.T) {
	err, line := True(false), callerLine()

	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "assert_test.go", filepath.Base(aerr.File))
	assert.Equal(t, line, aerr.Line)

	err, line = Failf("got %d", 1), callerLine()
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, line, aerr.Line)
}

func TestPass(t *testing.T) {
	assert.ErrorIs(t, Pass(), ErrPass)
	assert.NotErrorIs(t, Pass(), ErrAssertion)
}

func TestEqual_PointersCompareByValue(t *testing.T) {
	type point struct{ X, Y int }
	assert.True(t, Equal(point{1, 2}, point{1, 2}))
	assert.True(t, Equal(&point{1, 2}, &point{1, 2}))
	assert.False(t, Equal(nil, 0))
}
