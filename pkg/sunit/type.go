package sunit

// Invoker calls a method on an instance. Lifecycle hooks and simple tests
// are invoked with nil args.
type Invoker func(instance any, args Args) (any, error)

// Method is a named method of a registered type together with its markers.
type Method struct {
	Name    string
	Invoke  Invoker
	Markers Markers
}

// NewMethod builds a Method from an invoker and markers.
func NewMethod(name string, invoke Invoker, markers ...Marker) Method {
	return Method{Name: name, Invoke: invoke, Markers: Collect(markers...)}
}

// MemberKind is the kind of a case-source member.
type MemberKind int

const (
	MemberProperty MemberKind = iota
	MemberField
	MemberMethod
)

func (k MemberKind) String() string {
	switch k {
	case MemberProperty:
		return "property"
	case MemberField:
		return "field"
	default:
		return "method"
	}
}

// Member yields cases for parameterized tests. The instance is nil when the
// owning type is abstract.
type Member struct {
	Name string
	Kind MemberKind
	Eval func(instance any) ([]CaseData, error)
}

// Type is a registered candidate. It is a suite only if Fixture is set.
type Type struct {
	Name    string
	Fixture bool
	// New constructs an instance. A nil New marks the type abstract.
	New     func() (any, error)
	Methods []Method
	Members []Member
}

// Declare returns the type itself.
func (t *Type) Declare() *Type { return t }

// Abstract reports whether the type cannot be instantiated.
func (t *Type) Abstract() bool { return t.New == nil }

// Member looks a case-source member up by name: properties first, then
// fields, then methods.
func (t *Type) Member(name string) (Member, bool) {
	for _, kind := range []MemberKind{MemberProperty, MemberField, MemberMethod} {
		for _, m := range t.Members {
			if m.Kind == kind && m.Name == name {
				return m, true
			}
		}
	}
	return Member{}, false
}
