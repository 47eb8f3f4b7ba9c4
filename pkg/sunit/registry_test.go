package sunit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	n int
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	gen := reg.Generation()

	require.NoError(t, reg.Register(
		NewSuite("B", func() *widget { return &widget{} }),
		NewType("A", func() *widget { return &widget{} }),
	))

	assert.Greater(t, reg.Generation(), gen)
	types := reg.Types()
	require.Len(t, types, 2)
	assert.Equal(t, "B", types[0].Name, "registration order is kept")
	assert.True(t, types[0].Fixture)
	assert.False(t, types[1].Fixture)

	a, ok := reg.Lookup("A")
	require.True(t, ok)
	assert.Same(t, types[1], a)
}

func TestRegistry_RejectsDuplicatesAndEmptyNames(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewType[widget]("A", nil)))

	err := reg.Register(NewType[widget]("A", nil))
	assert.ErrorIs(t, err, ErrDuplicateType)

	assert.Error(t, reg.Register(&Type{}))
}

func TestRegistry_FailedBatchLeavesRegistryUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		batch []Declarer
	}{
		{
			name:  "duplicate of a registered type",
			batch: []Declarer{NewSuite("B", func() *widget { return &widget{} }), NewType[widget]("A", nil)},
		},
		{
			name:  "duplicate inside the batch",
			batch: []Declarer{NewType[widget]("C", nil), NewType[widget]("C", nil)},
		},
		{
			name:  "missing name",
			batch: []Declarer{NewType[widget]("D", nil), &Type{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			require.NoError(t, reg.Register(NewType[widget]("A", nil)))
			gen := reg.Generation()

			require.Error(t, reg.Register(tt.batch...))

			assert.Equal(t, gen, reg.Generation())
			require.Len(t, reg.Types(), 1)
			assert.Equal(t, "A", reg.Types()[0].Name)
			for _, d := range tt.batch {
				if name := d.Declare().Name; name != "A" && name != "" {
					_, ok := reg.Lookup(name)
					assert.False(t, ok, "%s must not be registered", name)
				}
			}
		})
	}
}

func TestRegistry_Reset(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewType[widget]("A", nil)))
	gen := reg.Generation()

	reg.Reset()

	assert.Empty(t, reg.Types())
	_, ok := reg.Lookup("A")
	assert.False(t, ok)
	assert.Greater(t, reg.Generation(), gen)
}

func TestRegistry_TypesIsACopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewType[widget]("A", nil)))

	types := reg.Types()
	types[0] = nil

	assert.NotNil(t, reg.Types()[0])
}
