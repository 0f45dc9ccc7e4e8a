package fetchmock

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Pattern matches requests by method and URL glob.
//
// The textual form is "METHOD URL", "METHOD" or "URL". A method of "*" or an
// omitted method matches any method. In the URL, "*" matches any run of
// characters except "/" and "**" matches anything. A pattern starting with "/"
// is compared with the request path only. The query string takes part in the
// match only when the pattern itself contains "?".
type Pattern struct {
	method    string
	url       string
	re        *regexp.Regexp
	pathOnly  bool
	withQuery bool
}

// ParsePattern parses the textual form of a Pattern.
func ParsePattern(pattern string) (*Pattern, error) {
	fields := strings.Fields(pattern)

	p := &Pattern{method: "*", url: "**"}
	switch len(fields) {
	case 1:
		if isMethodToken(fields[0]) {
			p.method = strings.ToUpper(fields[0])
		} else {
			p.url = fields[0]
		}
	case 2:
		if !isMethodToken(fields[0]) {
			return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidPattern, fields[0])
		}
		p.method = strings.ToUpper(fields[0])
		p.url = fields[1]
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	re, err := compileGlob(p.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	p.re = re
	p.pathOnly = strings.HasPrefix(p.url, "/")
	p.withQuery = strings.Contains(p.url, "?")
	return p, nil
}

// MustPattern is like ParsePattern but panics on error.
func MustPattern(pattern string) *Pattern {
	p, err := ParsePattern(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the normalized pattern, which is also its registration key.
func (p *Pattern) String() string {
	return p.method + " " + p.url
}

// MatchRequest reports whether req satisfies the pattern.
func (p *Pattern) MatchRequest(req *Request) bool {
	if req == nil {
		return false
	}
	if p.method != "*" && !strings.EqualFold(p.method, req.Method) {
		return false
	}
	return p.MatchURL(req.URL)
}

// MatchURL reports whether rawURL satisfies the URL half of the pattern.
func (p *Pattern) MatchURL(rawURL string) bool {
	target := rawURL
	if p.pathOnly {
		u, err := url.Parse(rawURL)
		if err != nil {
			return false
		}
		target = u.EscapedPath()
		if target == "" {
			target = "/"
		}
		if p.withQuery && u.RawQuery != "" {
			target += "?" + u.RawQuery
		}
	} else if !p.withQuery {
		if i := strings.IndexAny(target, "?#"); i >= 0 {
			target = target[:i]
		}
	}
	return p.re.MatchString(target)
}

// Match implements Matcher.
func (p *Pattern) Match(actual any) (bool, error) {
	req, err := asRequest(actual)
	if err != nil {
		return false, err
	}
	return p.MatchRequest(req), nil
}

// FailureMessage implements Matcher.
func (p *Pattern) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to match %s", actual, p)
}

func isMethodToken(s string) bool {
	if s == "*" {
		return true
	}
	switch strings.ToUpper(s) {
	case http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodConnect,
		http.MethodOptions,
		http.MethodTrace:
		return true
	default:
		return false
	}
}

func compileGlob(glob string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); {
		switch {
		case strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i += 2
		case glob[i] == '*':
			b.WriteString("[^/]*")
			i++
		default:
			j := i
			for j < len(glob) && glob[j] != '*' {
				j++
			}
			b.WriteString(regexp.QuoteMeta(glob[i:j]))
			i = j
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
