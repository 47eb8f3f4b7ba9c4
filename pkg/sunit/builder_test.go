package sunit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DeclaresMethodsWithMarkers(t *testing.T) {
	typ := NewSuite("W", func() *widget { return &widget{n: 2} }).
		OneTimeSetUp("Init", func(*widget) error { return nil }).
		SetUp("Before", func(w *widget) error { w.n++; return nil }).
		Test("Plain", func(*widget) error { return nil }).
		TestCase("Double", func(w *widget, args Args) (any, error) {
			return args.Int(0) * w.n, nil
		}, Case(3).Returns(6)).
		TearDown("After", func(*widget) error { return nil }).
		OneTimeTearDown("Dispose", func(*widget) error { return nil }).
		Declare()

	require.Len(t, typ.Methods, 6)
	assert.Equal(t, []Role{RoleOneTimeSetUp}, typ.Methods[0].Markers.Roles)
	assert.Equal(t, []Role{RoleSetUp}, typ.Methods[1].Markers.Roles)
	assert.True(t, typ.Methods[2].Markers.Test)
	assert.Len(t, typ.Methods[3].Markers.Cases, 1)
	assert.Equal(t, []Role{RoleTearDown}, typ.Methods[4].Markers.Roles)
	assert.Equal(t, []Role{RoleOneTimeTearDown}, typ.Methods[5].Markers.Roles)

	instance, err := typ.New()
	require.NoError(t, err)
	got, err := typ.Methods[3].Invoke(instance, Args{3})
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

func TestBuilder_PlainBodiesReturnNoValue(t *testing.T) {
	boom := errors.New("boom")
	typ := NewSuite("W", func() *widget { return &widget{} }).
		Test("Fails", func(*widget) error { return boom }).
		Declare()

	got, err := typ.Methods[0].Invoke(&widget{}, nil)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestBuilder_Members(t *testing.T) {
	typ := NewType("Data", func() *widget { return &widget{n: 4} }).
		Property("Prop", func(w *widget) []CaseData { return []CaseData{NewCaseData(w.n)} }).
		Field("Fixed", NewCaseData(1), NewCaseData(2)).
		CaseMethod("Method", func(*widget) ([]CaseData, error) { return nil, errors.New("no cases") }).
		Declare()

	prop, ok := typ.Member("Prop")
	require.True(t, ok)
	cases, err := prop.Eval(&widget{n: 9})
	require.NoError(t, err)
	assert.Equal(t, []any{9}, cases[0].Args)

	field, _ := typ.Member("Fixed")
	first, _ := field.Eval(nil)
	first[0] = NewCaseData(99)
	second, _ := field.Eval(nil)
	assert.Equal(t, []any{1}, second[0].Args, "field cases are copied per evaluation")

	method, _ := typ.Member("Method")
	_, err = method.Eval(nil)
	assert.EqualError(t, err, "no cases")
}

func TestNewAbstract_UsesNilReceiver(t *testing.T) {
	typ := NewAbstract[widget]("Static").
		Property("Cases", func(w *widget) []CaseData {
			if w == nil {
				return []CaseData{NewCaseData("static")}
			}
			return nil
		}).
		Declare()

	assert.True(t, typ.Abstract())
	assert.False(t, typ.Fixture)
	m, _ := typ.Member("Cases")
	cases, err := m.Eval(nil)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}
