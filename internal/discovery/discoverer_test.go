package discovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunit/internal/domain"
	"sunit/pkg/sunit"
)

type calc struct {
	offset int
}

func sum(c *calc, args sunit.Args) (any, error) {
	return args.Int(0) + args.Int(1) + c.offset, nil
}

func noop(*calc) error { return nil }

func newRegistry(t *testing.T, decls ...sunit.Declarer) *sunit.Registry {
	t.Helper()
	reg := sunit.NewRegistry()
	require.NoError(t, reg.Register(decls...))
	return reg
}

func TestDiscover_OnlyFixturesAreSuites(t *testing.T) {
	helper := sunit.NewType("Helper", func() *calc { return &calc{} }).
		Test("LooksLikeATest", noop)
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		Test("Works", noop)

	suites, errs := NewDiscoverer(nil).Discover(newRegistry(t, helper, suite))

	require.Empty(t, errs)
	require.Len(t, suites, 1)
	assert.Equal(t, "Calc", suites[0].Name)
}

func TestDiscover_ClassifiesLifecycleAndTests(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		OneTimeSetUp("Init", noop).
		SetUp("BeforeEach", noop).
		Test("First", noop).
		TearDown("AfterEach", noop).
		OneTimeTearDown("Dispose", noop).
		TestCase("Sum", sum, sunit.Case(1, 2).Returns(3)).
		Method("Helper", sum)

	suites, errs := NewDiscoverer(nil).Discover(newRegistry(t, suite))
	require.Empty(t, errs)
	require.Len(t, suites, 1)

	s := suites[0]
	require.NotNil(t, s.OneTimeSetUp)
	require.NotNil(t, s.OneTimeTearDown)
	require.NotNil(t, s.SetUp)
	require.NotNil(t, s.TearDown)
	assert.Equal(t, "Init", s.OneTimeSetUp.Name)
	assert.Equal(t, "Dispose", s.OneTimeTearDown.Name)
	assert.Equal(t, "BeforeEach", s.SetUp.Name)
	assert.Equal(t, "AfterEach", s.TearDown.Name)

	require.Len(t, s.Tests, 2)
	assert.Equal(t, "First", s.Tests[0].Name)
	assert.Equal(t, domain.Simple, s.Tests[0].Mode)
	assert.Equal(t, "Sum", s.Tests[1].Name)
	assert.Equal(t, domain.Parameterized, s.Tests[1].Mode)
	require.Len(t, s.Tests[1].Cases, 1)
	assert.Equal(t, []any{1, 2}, s.Tests[1].Cases[0].Args)
	assert.True(t, s.Tests[1].Cases[0].HasExpected)
}

func TestDiscover_LastLifecycleMarkerWins(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		Method("Both", sum, sunit.SetUp(), sunit.TearDown(), sunit.Test())

	suites, errs := NewDiscoverer(nil).Discover(newRegistry(t, suite))
	require.Empty(t, errs)

	s := suites[0]
	assert.Nil(t, s.SetUp)
	require.NotNil(t, s.TearDown)
	assert.Equal(t, "Both", s.TearDown.Name)
	assert.Empty(t, s.Tests, "a lifecycle method is never a test")
}

func TestDiscover_FirstMethodPerLifecycleRoleWins(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		SetUp("First", noop).
		SetUp("Second", noop).
		OneTimeTearDown("Dispose", noop).
		OneTimeTearDown("DisposeAgain", noop)

	suites, errs := NewDiscoverer(nil).Discover(newRegistry(t, suite))
	require.Empty(t, errs)

	s := suites[0]
	require.NotNil(t, s.SetUp)
	assert.Equal(t, "First", s.SetUp.Name)
	require.NotNil(t, s.OneTimeTearDown)
	assert.Equal(t, "Dispose", s.OneTimeTearDown.Name)
	assert.Empty(t, s.Tests)
}

func TestDiscover_CaseMarkersWinOverTestMarker(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		Method("Mixed", sum, sunit.Test(), sunit.Case(1, 1))

	suites, _ := NewDiscoverer(nil).Discover(newRegistry(t, suite))

	require.Len(t, suites[0].Tests, 1)
	assert.Equal(t, domain.Parameterized, suites[0].Tests[0].Mode)
}

func TestDiscover_ResolvesSourcesInLookupOrder(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{offset: 1} }).
		CaseMethod("Cases", func(*calc) ([]sunit.CaseData, error) {
			return []sunit.CaseData{sunit.NewCaseData("method")}, nil
		}).
		Field("Cases", sunit.NewCaseData("field")).
		Property("Cases", func(c *calc) []sunit.CaseData {
			return []sunit.CaseData{sunit.NewCaseData("property", c.offset)}
		}).
		TestCase("Sourced", sum, sunit.Source("Cases"))

	suites, errs := NewDiscoverer(nil).Discover(newRegistry(t, suite))
	require.Empty(t, errs)

	test := suites[0].Tests[0]
	require.Len(t, test.Sources, 1)
	src := test.Sources[0]
	assert.Equal(t, "property", src.Kind)
	assert.True(t, src.SameType)

	cases, err := src.Eval(&calc{offset: 7})
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, []any{"property", 7}, cases[0].Args)
}

func TestDiscover_FieldBeforeMethod(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		CaseMethod("Cases", func(*calc) ([]sunit.CaseData, error) { return nil, nil }).
		Field("Cases", sunit.NewCaseData(1, 2)).
		TestCase("Sourced", sum, sunit.Source("Cases"))

	suites, _ := NewDiscoverer(nil).Discover(newRegistry(t, suite))

	assert.Equal(t, "field", suites[0].Tests[0].Sources[0].Kind)
}

func TestDiscover_ExternalAndAbstractSources(t *testing.T) {
	external := sunit.NewType("Data", func() *calc { return &calc{} }).
		Field("Pairs", sunit.NewCaseData(2, 3).Returns(5))
	abstract := sunit.NewAbstract[calc]("StaticData").
		Property("Pairs", func(c *calc) []sunit.CaseData {
			if c != nil {
				return nil
			}
			return []sunit.CaseData{sunit.NewCaseData(4, 4)}
		})
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		TestCase("FromData", sum, sunit.SourceOf("Data", "Pairs")).
		TestCase("FromStatic", sum, sunit.SourceOf("StaticData", "Pairs"))

	suites, errs := NewDiscoverer(nil).Discover(newRegistry(t, external, abstract, suite))
	require.Empty(t, errs)
	require.Len(t, suites, 1)

	fromData := suites[0].Tests[0].Sources[0]
	assert.False(t, fromData.SameType)
	assert.NotNil(t, fromData.New)

	fromStatic := suites[0].Tests[1].Sources[0]
	assert.Nil(t, fromStatic.New, "abstract types are never instantiated")
	cases, err := fromStatic.Eval(nil)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestDiscover_UnresolvedSourceSkipsTestAndContinues(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		TestCase("MissingMember", sum, sunit.Source("Nope")).
		TestCase("MissingType", sum, sunit.SourceOf("Ghost", "Cases")).
		Test("StillRuns", noop)

	suites, errs := NewDiscoverer(nil).Discover(newRegistry(t, suite))

	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrUnresolvedSource))
		var derr *DiscoveryError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "Calc", derr.Suite)
	}
	require.Len(t, suites[0].Tests, 1)
	assert.Equal(t, "StillRuns", suites[0].Tests[0].Name)
}

func TestDiscover_IsIdempotent(t *testing.T) {
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		Test("A", noop).
		TestCase("B", sum, sunit.Case(1, 2))
	reg := newRegistry(t, suite)
	d := NewDiscoverer(nil)

	first, _ := d.Discover(reg)
	second, _ := d.Discover(reg)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		require.Len(t, second[i].Tests, len(first[i].Tests))
		for j := range first[i].Tests {
			assert.Equal(t, first[i].Tests[j].Name, second[i].Tests[j].Name)
			assert.Equal(t, first[i].Tests[j].Cases, second[i].Tests[j].Cases)
		}
	}
}

func TestDiscover_CasesAreCopied(t *testing.T) {
	marker := sunit.Case(1, 2)
	suite := sunit.NewSuite("Calc", func() *calc { return &calc{} }).
		TestCase("Sum", sum, marker)

	suites, _ := NewDiscoverer(nil).Discover(newRegistry(t, suite))
	suites[0].Tests[0].Cases[0].Args[0] = 99

	again, _ := NewDiscoverer(nil).Discover(newRegistry(t, sunit.NewSuite("Calc", func() *calc { return &calc{} }).TestCase("Sum", sum, marker)))
	assert.Equal(t, 1, again[0].Tests[0].Cases[0].Args[0])
}
