package sunit

// Role is the lifecycle role a marker assigns to a method.
type Role int

const (
	RoleNone Role = iota
	RoleOneTimeSetUp
	RoleOneTimeTearDown
	RoleSetUp
	RoleTearDown
)

func (r Role) String() string {
	switch r {
	case RoleOneTimeSetUp:
		return "OneTimeSetUp"
	case RoleOneTimeTearDown:
		return "OneTimeTearDown"
	case RoleSetUp:
		return "SetUp"
	case RoleTearDown:
		return "TearDown"
	default:
		return "None"
	}
}

// SourceRef names a member yielding cases. An empty Type means the declaring suite.
type SourceRef struct {
	Type   string
	Member string
}

// Markers is the metadata attached to one method.
type Markers struct {
	Test    bool
	Cases   []CaseData
	Sources []SourceRef
	Roles   []Role
}

// Marker decorates a method with metadata consumed by discovery.
type Marker interface {
	apply(m *Markers)
}

type markerFunc func(m *Markers)

func (f markerFunc) apply(m *Markers) { f(m) }

// Test marks a method as a plain test.
func Test() Marker {
	return markerFunc(func(m *Markers) { m.Test = true })
}

// OneTimeSetUp marks a method that runs once before all tests of the suite.
func OneTimeSetUp() Marker { return roleMarker(RoleOneTimeSetUp) }

// OneTimeTearDown marks a method that runs once after all tests of the suite.
func OneTimeTearDown() Marker { return roleMarker(RoleOneTimeTearDown) }

// SetUp marks a method that runs before every test and every case.
func SetUp() Marker { return roleMarker(RoleSetUp) }

// TearDown marks a method that runs after every test and every case.
func TearDown() Marker { return roleMarker(RoleTearDown) }

func roleMarker(r Role) Marker {
	return markerFunc(func(m *Markers) { m.Roles = append(m.Roles, r) })
}

// Source marks a method as parameterized, with cases taken from a member of
// the declaring suite.
func Source(member string) Marker {
	return SourceOf("", member)
}

// SourceOf marks a method as parameterized, with cases taken from a member of
// another registered type.
func SourceOf(typeName, member string) Marker {
	ref := SourceRef{Type: typeName, Member: member}
	return markerFunc(func(m *Markers) { m.Sources = append(m.Sources, ref) })
}

// CaseMarker is an inline case declaration.
type CaseMarker struct {
	Data CaseData
}

// Case declares one inline case with the given arguments.
func Case(args ...any) CaseMarker {
	return CaseMarker{Data: NewCaseData(args...)}
}

// Returns sets the expected return value of the case.
func (c CaseMarker) Returns(expected any) CaseMarker {
	c.Data = c.Data.Returns(expected)
	return c
}

func (c CaseMarker) apply(m *Markers) { m.Cases = append(m.Cases, c.Data) }

// Collect folds markers into a Markers value.
func Collect(markers ...Marker) Markers {
	var m Markers
	for _, mk := range markers {
		if mk != nil {
			mk.apply(&m)
		}
	}
	return m
}
