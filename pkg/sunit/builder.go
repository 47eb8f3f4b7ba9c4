package sunit

// Builder declares a type and its methods with typed method values.
type Builder[S any] struct {
	t *Type
}

// NewSuite starts a suite declaration (a type carrying the fixture marker).
func NewSuite[S any](name string, newFn func() *S) *Builder[S] {
	b := NewType(name, newFn)
	b.t.Fixture = true
	return b
}

// NewType starts a plain, instantiable type declaration, typically a holder
// of case-source members for other suites.
func NewType[S any](name string, newFn func() *S) *Builder[S] {
	t := &Type{Name: name}
	if newFn != nil {
		t.New = func() (any, error) { return newFn(), nil }
	}
	return &Builder[S]{t: t}
}

// NewAbstract starts an abstract type declaration. Its members are evaluated
// with a nil receiver.
func NewAbstract[S any](name string) *Builder[S] {
	return NewType[S](name, nil)
}

// Declare returns the declared type.
func (b *Builder[S]) Declare() *Type { return b.t }

// Method adds a method with arbitrary markers.
func (b *Builder[S]) Method(name string, fn func(s *S, args Args) (any, error), markers ...Marker) *Builder[S] {
	invoke := func(instance any, args Args) (any, error) {
		return fn(receiver[S](instance), args)
	}
	b.t.Methods = append(b.t.Methods, NewMethod(name, invoke, markers...))
	return b
}

// Test adds a plain test.
func (b *Builder[S]) Test(name string, fn func(s *S) error, markers ...Marker) *Builder[S] {
	return b.Method(name, plain(fn), append([]Marker{Test()}, markers...)...)
}

// TestCase adds a parameterized test. Cases are given as Case and Source markers.
func (b *Builder[S]) TestCase(name string, fn func(s *S, args Args) (any, error), markers ...Marker) *Builder[S] {
	return b.Method(name, fn, markers...)
}

// OneTimeSetUp adds the method run once before all tests.
func (b *Builder[S]) OneTimeSetUp(name string, fn func(s *S) error) *Builder[S] {
	return b.Method(name, plain(fn), OneTimeSetUp())
}

// OneTimeTearDown adds the method run once after all tests.
func (b *Builder[S]) OneTimeTearDown(name string, fn func(s *S) error) *Builder[S] {
	return b.Method(name, plain(fn), OneTimeTearDown())
}

// SetUp adds the method run before every test and case.
func (b *Builder[S]) SetUp(name string, fn func(s *S) error) *Builder[S] {
	return b.Method(name, plain(fn), SetUp())
}

// TearDown adds the method run after every test and case.
func (b *Builder[S]) TearDown(name string, fn func(s *S) error) *Builder[S] {
	return b.Method(name, plain(fn), TearDown())
}

// Property adds a case-source property.
func (b *Builder[S]) Property(name string, fn func(s *S) []CaseData) *Builder[S] {
	return b.member(name, MemberProperty, func(instance any) ([]CaseData, error) {
		return fn(receiver[S](instance)), nil
	})
}

// Field adds a case-source field holding a fixed case list.
func (b *Builder[S]) Field(name string, cases ...CaseData) *Builder[S] {
	return b.member(name, MemberField, func(any) ([]CaseData, error) {
		out := make([]CaseData, len(cases))
		copy(out, cases)
		return out, nil
	})
}

// CaseMethod adds a zero-argument case-source method.
func (b *Builder[S]) CaseMethod(name string, fn func(s *S) ([]CaseData, error)) *Builder[S] {
	return b.member(name, MemberMethod, func(instance any) ([]CaseData, error) {
		return fn(receiver[S](instance))
	})
}

func (b *Builder[S]) member(name string, kind MemberKind, eval func(any) ([]CaseData, error)) *Builder[S] {
	b.t.Members = append(b.t.Members, Member{Name: name, Kind: kind, Eval: eval})
	return b
}

func plain[S any](fn func(s *S) error) func(*S, Args) (any, error) {
	return func(s *S, _ Args) (any, error) {
		return nil, fn(s)
	}
}

// receiver converts an instance back to *S. A nil or foreign instance yields nil.
func receiver[S any](instance any) *S {
	s, _ := instance.(*S)
	return s
}
