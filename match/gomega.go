package match

import (
	"fmt"

	"github.com/onsi/gomega/types"
	"github.com/tarmac-project/fetchmock"
)

type gomegaMatcher struct {
	inner types.GomegaMatcher
}

// Gomega adapts a gomega matcher to the request. Registries accept gomega
// matchers directly; the adapter adds request validation and a readable
// description for diagnostics.
//
//	match.Gomega(gomega.WithTransform(func(r *fetchmock.Request) string { return r.Method }, gomega.Equal("POST")))
func Gomega(m types.GomegaMatcher) fetchmock.Matcher {
	return &gomegaMatcher{inner: m}
}

func (g *gomegaMatcher) Match(actual any) (bool, error) {
	req, err := request(actual)
	if err != nil {
		return false, err
	}
	return g.inner.Match(req)
}

func (g *gomegaMatcher) FailureMessage(actual any) string {
	return g.inner.FailureMessage(actual)
}

func (g *gomegaMatcher) String() string {
	return fmt.Sprintf("gomega %T", g.inner)
}
