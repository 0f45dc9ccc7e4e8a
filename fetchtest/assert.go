package fetchtest

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/tarmac-project/fetchmock"
)

// TestingT is the subset of testing.TB the assertions need.
type TestingT interface {
	Errorf(format string, args ...any)
	Helper()
}

// AssertCalled asserts that at least one recorded call matches method and
// urlPattern (see fetchmock.Pattern). An empty method matches any method.
func AssertCalled(t TestingT, reg *fetchmock.Registry, method, urlPattern string) bool {
	t.Helper()
	p, ok := pattern(t, method, urlPattern)
	if !ok {
		return false
	}
	if len(reg.CallsMatching(p)) == 0 {
		return assert.Fail(t, fmt.Sprintf("expected a call matching %s", p), describeCalls(reg.Calls()))
	}
	return true
}

// AssertNotCalled asserts that no recorded call matches method and urlPattern.
func AssertNotCalled(t TestingT, reg *fetchmock.Registry, method, urlPattern string) bool {
	t.Helper()
	p, ok := pattern(t, method, urlPattern)
	if !ok {
		return false
	}
	if calls := reg.CallsMatching(p); len(calls) > 0 {
		return assert.Fail(t, fmt.Sprintf("expected no call matching %s", p), describeCalls(calls))
	}
	return true
}

// AssertCallCount asserts the number of recorded calls matching method and urlPattern.
func AssertCallCount(t TestingT, reg *fetchmock.Registry, method, urlPattern string, want int) bool {
	t.Helper()
	p, ok := pattern(t, method, urlPattern)
	if !ok {
		return false
	}
	return assert.Len(t, reg.CallsMatching(p), want, "calls matching %s", p)
}

// AssertExpectations asserts that every Once or Times registration was used up.
func AssertExpectations(t TestingT, reg *fetchmock.Registry) bool {
	t.Helper()
	pending := reg.Pending()
	if len(pending) > 0 {
		return assert.Fail(t, "registrations not consumed", strings.Join(pending, "\n"))
	}
	return true
}

// AssertNoUnmocked asserts that every recorded call was answered by a registration.
func AssertNoUnmocked(t TestingT, reg *fetchmock.Registry) bool {
	t.Helper()
	if unmocked := reg.Unmocked(); len(unmocked) > 0 {
		return assert.Fail(t, fmt.Sprintf("%d unmocked call(s)", len(unmocked)), describeCalls(unmocked))
	}
	return true
}

func pattern(t TestingT, method, urlPattern string) (*fetchmock.Pattern, bool) {
	if method == "" {
		method = "*"
	}
	p, err := fetchmock.ParsePattern(method + " " + urlPattern)
	if err != nil {
		return nil, assert.NoError(t, err)
	}
	return p, true
}

func describeCalls(calls []fetchmock.Call) string {
	if len(calls) == 0 {
		return "no calls recorded"
	}
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		line := fmt.Sprintf("#%d %s", c.Seq, c.Request)
		if c.Unmocked() {
			line += " (unmocked)"
		} else {
			line += " -> " + c.Registration
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
