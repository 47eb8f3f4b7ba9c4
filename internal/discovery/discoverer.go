package discovery

import (
	"log/slog"

	"sunit/internal/domain"
	"sunit/pkg/sunit"
)

// Discoverer builds suite descriptors from a registry.
type Discoverer struct {
	logger *slog.Logger
}

// NewDiscoverer creates a new Discoverer
func NewDiscoverer(logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{logger: logger}
}

// Discover returns the suites of reg in registration order. Tests whose case
// source cannot be resolved are skipped and reported as *DiscoveryError.
// Discover has no side effects and may be called any number of times.
func (d *Discoverer) Discover(reg *sunit.Registry) ([]domain.SuiteDescriptor, []error) {
	var (
		suites []domain.SuiteDescriptor
		errs   []error
	)

	for _, t := range reg.Types() {
		if !t.Fixture {
			continue
		}
		suite, suiteErrs := d.describe(reg, t)
		suites = append(suites, suite)
		errs = append(errs, suiteErrs...)
	}

	d.logger.Debug("discovery finished", "suites", len(suites), "errors", len(errs))
	return suites, errs
}

func (d *Discoverer) describe(reg *sunit.Registry, t *sunit.Type) (domain.SuiteDescriptor, []error) {
	suite := domain.SuiteDescriptor{
		Name: t.Name,
		New:  t.New,
	}
	var errs []error

	for _, m := range t.Methods {
		if role, ok := lifecycleRole(m.Markers); ok {
			var slot **domain.Hook
			switch role {
			case sunit.RoleOneTimeSetUp:
				slot = &suite.OneTimeSetUp
			case sunit.RoleOneTimeTearDown:
				slot = &suite.OneTimeTearDown
			case sunit.RoleSetUp:
				slot = &suite.SetUp
			case sunit.RoleTearDown:
				slot = &suite.TearDown
			}
			// The first method declared for a role wins.
			if slot != nil {
				if *slot != nil {
					d.logger.Debug("lifecycle method ignored", "suite", t.Name, "method", m.Name, "kept", (*slot).Name)
				} else {
					*slot = &domain.Hook{Name: m.Name, Invoke: invoker(m.Invoke)}
				}
			}
			continue
		}

		mk := m.Markers
		parameterized := len(mk.Cases) > 0 || len(mk.Sources) > 0
		if !mk.Test && !parameterized {
			continue
		}

		test := domain.TestDescriptor{
			Name:   m.Name,
			Mode:   domain.Simple,
			Invoke: invoker(m.Invoke),
		}
		if parameterized {
			if mk.Test {
				d.logger.Debug("test marker ignored on parameterized test", "suite", t.Name, "test", m.Name)
			}
			test.Mode = domain.Parameterized
			test.Cases = convertCases(mk.Cases)

			sources, err := d.resolveSources(reg, t, m.Name, mk.Sources)
			if err != nil {
				d.logger.Warn("skipping test", "suite", t.Name, "test", m.Name, "error", err)
				errs = append(errs, err)
				continue
			}
			test.Sources = sources
		}
		suite.Tests = append(suite.Tests, test)
	}

	return suite, errs
}

// lifecycleRole returns the last lifecycle role among the markers.
func lifecycleRole(m sunit.Markers) (sunit.Role, bool) {
	for i := len(m.Roles) - 1; i >= 0; i-- {
		if m.Roles[i] != sunit.RoleNone {
			return m.Roles[i], true
		}
	}
	return sunit.RoleNone, false
}

func (d *Discoverer) resolveSources(reg *sunit.Registry, suite *sunit.Type, test string, refs []sunit.SourceRef) ([]domain.CaseSource, error) {
	sources := make([]domain.CaseSource, 0, len(refs))
	for _, ref := range refs {
		src, err := resolveSource(reg, suite, test, ref)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func resolveSource(reg *sunit.Registry, suite *sunit.Type, test string, ref sunit.SourceRef) (domain.CaseSource, error) {
	owner := suite
	if ref.Type != "" && ref.Type != suite.Name {
		t, ok := reg.Lookup(ref.Type)
		if !ok {
			return domain.CaseSource{}, &DiscoveryError{
				Suite: suite.Name, Test: test, Type: ref.Type, Member: ref.Member,
				Msg: "type is not registered",
			}
		}
		owner = t
	}

	member, ok := owner.Member(ref.Member)
	if !ok {
		return domain.CaseSource{}, &DiscoveryError{
			Suite: suite.Name, Test: test, Type: owner.Name, Member: ref.Member,
			Msg: "no property, field or method with that name",
		}
	}

	eval := member.Eval
	return domain.CaseSource{
		TypeName: owner.Name,
		Member:   member.Name,
		Kind:     member.Kind.String(),
		SameType: owner == suite,
		New:      owner.New,
		Eval: func(instance any) ([]domain.CaseDescriptor, error) {
			cases, err := eval(instance)
			if err != nil {
				return nil, err
			}
			return convertCases(cases), nil
		},
	}, nil
}

func convertCases(cases []sunit.CaseData) []domain.CaseDescriptor {
	if len(cases) == 0 {
		return nil
	}
	out := make([]domain.CaseDescriptor, 0, len(cases))
	for _, c := range cases {
		args := make([]any, len(c.Args))
		copy(args, c.Args)
		out = append(out, domain.CaseDescriptor{
			Args:        args,
			Expected:    c.Expected,
			HasExpected: c.HasExpected,
		})
	}
	return out
}

func invoker(inv sunit.Invoker) domain.Invoker {
	return func(instance any, args []any) (any, error) {
		return inv(instance, sunit.Args(args))
	}
}
