// Package match provides request matchers for fetchmock registrations.
//
// Every constructor returns a fetchmock.Matcher. Matchers compose with All,
// AnyOf and Not, and gomega matchers can be mixed in directly since they share
// the Match/FailureMessage method set.
package match
