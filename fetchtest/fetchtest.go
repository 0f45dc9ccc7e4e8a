package fetchtest

import (
	"testing"

	"github.com/tarmac-project/fetchmock"
	"github.com/tarmac-project/fetchmock/fetch"
	"github.com/tarmac-project/fetchmock/host"
	"github.com/tarmac-project/fetchmock/hostmock"
	"github.com/tarmac-project/fetchmock/transport"
)

type options struct {
	cfg    fetchmock.Config
	global bool
	strict bool
}

// Option customizes New.
type Option func(*options)

// WithConfig sets the registry configuration. A nil Logger is replaced with
// one that writes to t.Logf.
func WithConfig(cfg fetchmock.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// Global installs the registry as http.DefaultTransport until the test ends.
func Global() Option {
	return func(o *options) { o.global = true }
}

// Strict fails the test at cleanup when any call went unmocked or a Once or
// Times registration was not used up.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// New creates a registry scoped to t. The registry is reset when the test
// ends. It fails the test immediately if the configuration is invalid.
func New(t testing.TB, opts ...Option) *fetchmock.Registry {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg.Logger == nil {
		o.cfg.Logger = NewLogger(t)
	}

	reg, err := fetchmock.New(o.cfg)
	if err != nil {
		t.Fatalf("fetchtest: %v", err)
		return nil
	}

	// Cleanups run last-registered first: strict checks, then transport
	// restore, then reset.
	t.Cleanup(reg.Reset)
	if o.global {
		Install(t, reg)
	}
	if o.strict {
		t.Cleanup(func() {
			AssertNoUnmocked(t, reg)
			AssertExpectations(t, reg)
		})
	}

	return reg
}

// Install swaps http.DefaultTransport for reg until the test ends.
func Install(t testing.TB, reg *fetchmock.Registry) {
	t.Helper()
	t.Cleanup(transport.InstallDefault(reg))
}

// HostCall returns a waPC host function answering httpclient calls from reg.
func HostCall(reg *fetchmock.Registry) host.Call {
	return hostmock.ForRegistry(reg).HostCall
}

// Client returns a fetch client whose host calls are answered by reg.
func Client(t testing.TB, reg *fetchmock.Registry) *fetch.HTTPClient {
	t.Helper()
	c, err := fetch.New(fetch.Config{
		SDKConfig: host.RuntimeConfig{Namespace: reg.Namespace()},
		HostCall:  HostCall(reg),
	})
	if err != nil {
		t.Fatalf("fetchtest: %v", err)
	}
	return c
}
