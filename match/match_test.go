package match_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive
	"github.com/tarmac-project/fetchmock"
	"github.com/tarmac-project/fetchmock/logging"
	"github.com/tarmac-project/fetchmock/match"
)

func newRequest(method, url, body string, headers map[string]string) *fetchmock.Request {
	var b []byte
	if body != "" {
		b = []byte(body)
	}
	req := fetchmock.NewRequest(method, url, b)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestMatchers(t *testing.T) {
	post := newRequest(http.MethodPost, "https://api.example.com/orders?region=eu&tier=gold", `{"amount":150,"items":[{"sku":"a"}],"user":{"id":42}}`, map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer token",
	})

	tt := []struct {
		name    string
		matcher fetchmock.Matcher
		want    bool
	}{
		{"any", match.Any(), true},
		{"method", match.Method("post"), true},
		{"method mismatch", match.Method(http.MethodGet), false},
		{"url exact", match.URL("https://api.example.com/orders?region=eu&tier=gold"), true},
		{"url exact mismatch", match.URL("https://api.example.com/orders"), false},
		{"url pattern", match.URLPattern("https://api.example.com/*"), true},
		{"url regexp", match.URLRegexp(`/orders\?`), true},
		{"query", match.Query("tier", "gold"), true},
		{"query mismatch", match.Query("tier", "silver"), false},
		{"query missing", match.Query("missing", ""), false},
		{"header", match.Header("content-type", "application/json"), true},
		{"header mismatch", match.Header("Content-Type", "text/plain"), false},
		{"has header", match.HasHeader("Authorization"), true},
		{"body contains", match.BodyContains(`"sku":"a"`), true},
		{"body exact mismatch", match.Body([]byte(`{}`)), false},
		{"jq comparison", match.MustJSONPath(`.amount > 100`), true},
		{"jq nested", match.MustJSONPath(`.user.id == 42`), true},
		{"jq false", match.MustJSONPath(`.amount < 100`), false},
		{"jq null", match.MustJSONPath(`.missing`), false},
		{"jq length", match.MustJSONPath(`.items | length == 1`), true},
		{"jq empty stream", match.MustJSONPath(`empty`), false},
		{"json equal ignores key order", match.JSONEqual(map[string]any{
			"user":   map[string]any{"id": 42},
			"items":  []any{map[string]any{"sku": "a"}},
			"amount": 150,
		}), true},
		{"json equal mismatch", match.JSONEqual(map[string]any{"amount": 1}), false},
		{"all", match.All(match.Method("POST"), match.HasHeader("Authorization"), match.MustJSONPath(`.amount > 100`)), true},
		{"all short circuits", match.All(match.Method("POST"), match.Method("GET")), false},
		{"all empty", match.All(), true},
		{"any of", match.AnyOf(match.Method("GET"), match.Method("POST")), true},
		{"any of none", match.AnyOf(match.Method("GET"), match.Method("PUT")), false},
		{"not", match.Not(match.Method("GET")), true},
		{"func", match.Func("has body", func(r *fetchmock.Request) bool { return len(r.Body) > 0 }), true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.matcher.Match(post)
			if err != nil {
				t.Fatalf("Match returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("%s: want %v got %v", fetchmock.Describe(tc.matcher), tc.want, got)
			}
		})
	}
}

func TestJSONPathNonJSONBody(t *testing.T) {
	m := match.MustJSONPath(`.a`)
	for _, body := range []string{"", "not json"} {
		ok, err := m.Match(newRequest(http.MethodPost, "https://x.test", body, nil))
		if err != nil || ok {
			t.Errorf("body %q: expected no match without error, got %v %v", body, ok, err)
		}
	}
}

func TestJSONPathInvalidExpression(t *testing.T) {
	if _, err := match.JSONPath(`.a[`); err == nil {
		t.Fatalf("expected parse error")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustJSONPath to panic")
		}
	}()
	match.MustJSONPath(`.a[`)
}

func TestMatcherRejectsForeignValues(t *testing.T) {
	g := NewWithT(t)

	_, err := match.Method("GET").Match("GET")
	g.Expect(err).To(MatchError(ContainSubstring("expected *fetchmock.Request")))

	_, err = match.Method("GET").Match((*fetchmock.Request)(nil))
	g.Expect(errors.Is(err, fetchmock.ErrNilRequest)).To(BeTrue())
}

func TestDescribe(t *testing.T) {
	g := NewWithT(t)

	m := match.All(match.Method("get"), match.Not(match.HasHeader("X-Debug")))
	g.Expect(fetchmock.Describe(m)).To(Equal("all(method GET, not has header X-Debug)"))
	g.Expect(m.FailureMessage("req")).To(ContainSubstring("all(method GET"))
}

func TestGomegaMatchersAsRegistrations(t *testing.T) {
	g := NewWithT(t)

	reg, err := fetchmock.New(fetchmock.Config{Logger: logging.NewRecorder()})
	g.Expect(err).NotTo(HaveOccurred())

	method := func(r *fetchmock.Request) string { return r.Method }
	url := func(r *fetchmock.Request) string { return r.URL }

	err = reg.RegisterMatcher(
		And(
			WithTransform(method, Equal(http.MethodPost)),
			WithTransform(url, HaveSuffix("/orders")),
		),
		fetchmock.RespondStatus(http.StatusCreated),
	)
	g.Expect(err).NotTo(HaveOccurred())

	resp, err := reg.Fetch(context.Background(), newRequest(http.MethodPost, "https://x.test/orders", "", nil))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(resp.StatusCode).To(Equal(http.StatusCreated))

	_, err = reg.Fetch(context.Background(), newRequest(http.MethodGet, "https://x.test/orders", "", nil))
	g.Expect(err).To(MatchError(fetchmock.ErrUnmocked))

	g.Expect(reg.CallsMatching(match.Method(http.MethodGet))).To(HaveLen(1))
}

func TestGomegaAdapter(t *testing.T) {
	g := NewWithT(t)

	m := match.Gomega(WithTransform(func(r *fetchmock.Request) []byte { return r.Body }, MatchJSON(`{"a":1}`)))

	ok, err := m.Match(newRequest(http.MethodPost, "https://x.test", `{ "a" : 1 }`, nil))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())

	_, err = m.Match(42)
	g.Expect(err).To(HaveOccurred())
	g.Expect(fetchmock.Describe(m)).To(HavePrefix("gomega "))
}
