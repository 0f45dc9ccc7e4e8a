package match

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tarmac-project/fetchmock"
)

// predicate is the common Matcher implementation.
type predicate struct {
	desc string
	fn   func(*fetchmock.Request) (bool, error)
}

func newPredicate(desc string, fn func(*fetchmock.Request) (bool, error)) fetchmock.Matcher {
	return &predicate{desc: desc, fn: fn}
}

func (p *predicate) Match(actual any) (bool, error) {
	req, err := request(actual)
	if err != nil {
		return false, err
	}
	return p.fn(req)
}

func (p *predicate) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to satisfy %s", actual, p.desc)
}

func (p *predicate) String() string { return p.desc }

func request(actual any) (*fetchmock.Request, error) {
	switch v := actual.(type) {
	case *fetchmock.Request:
		if v == nil {
			return nil, fetchmock.ErrNilRequest
		}
		return v, nil
	case fetchmock.Request:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected *fetchmock.Request, got %T", actual)
	}
}

// Any matches every request.
func Any() fetchmock.Matcher {
	return newPredicate("any request", func(*fetchmock.Request) (bool, error) { return true, nil })
}

// Func adapts a plain predicate.
func Func(desc string, fn func(*fetchmock.Request) bool) fetchmock.Matcher {
	return newPredicate(desc, func(r *fetchmock.Request) (bool, error) { return fn(r), nil })
}

// Method matches the HTTP method, case-insensitively.
func Method(method string) fetchmock.Matcher {
	return newPredicate("method "+strings.ToUpper(method), func(r *fetchmock.Request) (bool, error) {
		return strings.EqualFold(r.Method, method), nil
	})
}

// URL matches the full URL exactly.
func URL(raw string) fetchmock.Matcher {
	return newPredicate("url "+raw, func(r *fetchmock.Request) (bool, error) {
		return r.URL == raw, nil
	})
}

// URLPattern matches the URL against a fetchmock glob pattern. Panics if the
// glob is invalid.
func URLPattern(glob string) fetchmock.Matcher {
	p := fetchmock.MustPattern(glob)
	return newPredicate("url "+glob, func(r *fetchmock.Request) (bool, error) {
		return p.MatchURL(r.URL), nil
	})
}

// URLRegexp matches the URL against a regular expression. Panics if expr
// does not compile.
func URLRegexp(expr string) fetchmock.Matcher {
	re := regexp.MustCompile(expr)
	return newPredicate("url =~ "+expr, func(r *fetchmock.Request) (bool, error) {
		return re.MatchString(r.URL), nil
	})
}

// Query matches when the URL query has key set to value.
func Query(key, value string) fetchmock.Matcher {
	return newPredicate(fmt.Sprintf("query %s=%s", key, value), func(r *fetchmock.Request) (bool, error) {
		u, err := url.Parse(r.URL)
		if err != nil {
			return false, err
		}
		values, ok := u.Query()[key]
		if !ok {
			return false, nil
		}
		for _, v := range values {
			if v == value {
				return true, nil
			}
		}
		return false, nil
	})
}

// Header matches when the request carries header key with value.
func Header(key, value string) fetchmock.Matcher {
	return newPredicate(fmt.Sprintf("header %s: %s", key, value), func(r *fetchmock.Request) (bool, error) {
		for _, v := range r.Header.Values(key) {
			if v == value {
				return true, nil
			}
		}
		return false, nil
	})
}

// HasHeader matches when the request carries header key with any value.
func HasHeader(key string) fetchmock.Matcher {
	return newPredicate("has header "+key, func(r *fetchmock.Request) (bool, error) {
		return len(r.Header.Values(key)) > 0, nil
	})
}

// Body matches the request body byte for byte.
func Body(body []byte) fetchmock.Matcher {
	return newPredicate(fmt.Sprintf("body %q", body), func(r *fetchmock.Request) (bool, error) {
		return bytes.Equal(r.Body, body), nil
	})
}

// BodyContains matches when the body contains sub.
func BodyContains(sub string) fetchmock.Matcher {
	return newPredicate(fmt.Sprintf("body contains %q", sub), func(r *fetchmock.Request) (bool, error) {
		return bytes.Contains(r.Body, []byte(sub)), nil
	})
}

// All matches when every matcher matches. An empty list matches everything.
func All(matchers ...fetchmock.Matcher) fetchmock.Matcher {
	return newPredicate(join("all", matchers), func(r *fetchmock.Request) (bool, error) {
		for _, m := range matchers {
			ok, err := m.Match(r)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	})
}

// AnyOf matches when at least one matcher matches.
func AnyOf(matchers ...fetchmock.Matcher) fetchmock.Matcher {
	return newPredicate(join("any of", matchers), func(r *fetchmock.Request) (bool, error) {
		for _, m := range matchers {
			ok, err := m.Match(r)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	})
}

// Not inverts a matcher. Errors are passed through.
func Not(m fetchmock.Matcher) fetchmock.Matcher {
	return newPredicate("not "+fetchmock.Describe(m), func(r *fetchmock.Request) (bool, error) {
		ok, err := m.Match(r)
		if err != nil {
			return false, err
		}
		return !ok, nil
	})
}

func join(label string, matchers []fetchmock.Matcher) string {
	parts := make([]string, 0, len(matchers))
	for _, m := range matchers {
		parts = append(parts, fetchmock.Describe(m))
	}
	return label + "(" + strings.Join(parts, ", ") + ")"
}
