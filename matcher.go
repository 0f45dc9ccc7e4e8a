package fetchmock

import "fmt"

// Matcher decides whether a registration applies to a request.
//
// The method set mirrors gomega's GomegaMatcher, so any gomega matcher can be
// registered directly. The registry always passes a *Request as actual and
// calls Match without holding its lock. A Match that returns an error or
// panics counts as no match.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatcherFunc adapts a plain predicate to Matcher.
type MatcherFunc func(req *Request) bool

// Match implements Matcher.
func (f MatcherFunc) Match(actual any) (bool, error) {
	req, err := asRequest(actual)
	if err != nil {
		return false, err
	}
	return f(req), nil
}

// FailureMessage implements Matcher.
func (f MatcherFunc) FailureMessage(actual any) string {
	return fmt.Sprintf("request %v does not satisfy predicate", actual)
}

func asRequest(actual any) (*Request, error) {
	switch v := actual.(type) {
	case *Request:
		if v == nil {
			return nil, ErrNilRequest
		}
		return v, nil
	case Request:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected *fetchmock.Request, got %T", actual)
	}
}

// Describe renders a matcher for diagnostics. Matchers implementing
// fmt.Stringer describe themselves; others are named by type.
func Describe(m Matcher) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m)
}
