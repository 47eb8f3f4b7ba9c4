package sunit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseData(t *testing.T) {
	c := NewCaseData(1, "a")
	assert.False(t, c.HasExpected)
	assert.Equal(t, "[1 a]", c.String())

	r := c.Returns(2)
	assert.True(t, r.HasExpected)
	assert.Equal(t, 2, r.Expected)
	assert.Equal(t, "[1 a] -> 2", r.String())
	assert.False(t, c.HasExpected, "Returns does not modify the receiver")
}

func TestArgs_Accessors(t *testing.T) {
	args := Args{1, "two", 3.5, true}

	assert.Equal(t, 4, args.Len())
	assert.Equal(t, 1, args.Int(0))
	assert.Equal(t, "two", args.String(1))
	assert.InDelta(t, 3.5, args.Float64(2), 0)
	assert.True(t, args.Bool(3))
	assert.Equal(t, "two", args.Get(1))
}

func TestArgs_PanicsOnMisuse(t *testing.T) {
	args := Args{1}

	assert.PanicsWithValue(t, "sunit: argument 1 out of range (case has 1)", func() { args.Get(1) })
	assert.PanicsWithValue(t, "sunit: argument 0 is int, not string", func() { args.String(0) })
	assert.PanicsWithValue(t, "sunit: argument 0 is int, not int64", func() { argAs[int64](args, 0) })
}
