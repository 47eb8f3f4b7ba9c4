// Package sunit is the author-facing side of the sunit test framework.
//
// Suites are plain Go types registered in a Registry together with their
// methods and the markers that give those methods a role:
//
//	type CaseTests struct{}
//
//	func init() {
//		s := sunit.NewSuite("CaseTests", func() *CaseTests { return &CaseTests{} })
//		s.TestCase("ExpectedResults", func(_ *CaseTests, args sunit.Args) (any, error) {
//			return args.Int(0) + args.Int(1), nil
//		},
//			sunit.Case(0, 5).Returns(5),
//			sunit.Case(10, 5).Returns(15),
//		)
//		sunit.MustRegister(s)
//	}
//
// Test bodies return an error. A nil error passes, ErrPass (see Pass) stops the
// body early and still passes, anything else fails.
package sunit
