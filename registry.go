package fetchmock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tarmac-project/fetchmock/host"
	"github.com/tarmac-project/fetchmock/logging"
	"github.com/tarmac-project/fetchmock/metrics"
)

// Metric names reported when Config.Metrics is set.
const (
	MetricCalls         = "fetchmock_calls_total"
	MetricUnmocked      = "fetchmock_unmocked_total"
	MetricRegistrations = "fetchmock_registrations"
	MetricHandlerTime   = "fetchmock_handler_seconds"
)

// maxBodyHint caps how much of a request body an unmocked-call warning quotes.
const maxBodyHint = 256

// Config controls construction of a Registry.
type Config struct {
	// Namespace scopes the registry when it answers waPC host calls.
	// If empty, host.DefaultNamespace is used.
	Namespace string

	// DefaultMode applies to registrations that do not pass Once, Times or Persist.
	DefaultMode Mode

	// Logger receives diagnostics. Unmocked calls are reported at Warn.
	// If nil, a stderr slog logger at Info level is used.
	Logger logging.Client

	// Metrics receives call counters and handler timings. Optional.
	Metrics metrics.Client

	// Clock stamps recorded calls. If nil, time.Now is used.
	Clock func() time.Time
}

type registration struct {
	key     string
	matcher Matcher
	handler Handler
	mode    Mode
	uses    int
}

func (r *registration) exhausted() bool {
	return r.mode == ModeOnce && r.uses <= 0
}

// Registry is the fetch mock registry. It holds an ordered table of
// registrations and an append-only record of calls, both cleared by Reset.
// A Registry is safe for concurrent use; create one per test rather than
// sharing a package-level instance.
type Registry struct {
	cfg Config

	mu    sync.Mutex
	regs  []*registration
	calls []Call
	auto  int

	callCount   metrics.Counter
	unmockCount metrics.Counter
	regGauge    metrics.Gauge
	timing      metrics.Histogram
}

// New creates a Registry, applying defaults to the provided configuration.
func New(config Config) (*Registry, error) {
	if !config.DefaultMode.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, config.DefaultMode)
	}

	cfg := config
	cfg.Namespace = host.RuntimeConfig{Namespace: config.Namespace}.WithDefaults().Namespace
	if cfg.Logger == nil {
		cfg.Logger = logging.NewSlog(logging.Setup(false))
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	r := &Registry{
		cfg:         cfg,
		callCount:   nopMetric{},
		unmockCount: nopMetric{},
		regGauge:    nopMetric{},
		timing:      nopMetric{},
	}

	if cfg.Metrics != nil {
		if err := r.bindMetrics(cfg.Metrics); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(config Config) *Registry {
	r, err := New(config)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) bindMetrics(m metrics.Client) error {
	var err error
	if r.callCount, err = m.NewCounter(MetricCalls); err != nil {
		return err
	}
	if r.unmockCount, err = m.NewCounter(MetricUnmocked); err != nil {
		return err
	}
	if r.regGauge, err = m.NewGauge(MetricRegistrations); err != nil {
		return err
	}
	if r.timing, err = m.NewHistogram(MetricHandlerTime); err != nil {
		return err
	}
	return nil
}

// Namespace returns the namespace the registry answers host calls for.
func (r *Registry) Namespace() string { return r.cfg.Namespace }

// Logger returns the diagnostic logger in use.
func (r *Registry) Logger() logging.Client { return r.cfg.Logger }

// Register associates a pattern (see Pattern) with a handler. A registration
// with the same normalized pattern, or the same Named key, is replaced in place.
func (r *Registry) Register(pattern string, handler Handler, opts ...Option) error {
	p, err := ParsePattern(pattern)
	if err != nil {
		return err
	}
	return r.add(p.String(), p, handler, opts)
}

// RegisterMatcher associates an arbitrary matcher with a handler. Without
// Named, every call adds a new registration.
func (r *Registry) RegisterMatcher(m Matcher, handler Handler, opts ...Option) error {
	if m == nil {
		return ErrNilMatcher
	}

	r.mu.Lock()
	r.auto++
	key := fmt.Sprintf("%s#%d", Describe(m), r.auto)
	r.mu.Unlock()

	return r.add(key, m, handler, opts)
}

func (r *Registry) add(key string, m Matcher, handler Handler, opts []Option) error {
	if handler == nil {
		return ErrNilHandler
	}

	reg := &registration{
		key:     key,
		matcher: m,
		handler: handler,
		mode:    r.cfg.DefaultMode,
		uses:    1,
	}
	for _, opt := range opts {
		if err := opt(reg); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.regs {
		if existing.key == reg.key {
			r.regs[i] = reg
			r.cfg.Logger.Debug(fmt.Sprintf("replaced registration %s (%s)", reg.key, reg.mode))
			return nil
		}
	}

	r.regs = append(r.regs, reg)
	r.regGauge.Inc()
	r.cfg.Logger.Debug(fmt.Sprintf("registered %s (%s)", reg.key, reg.mode))
	return nil
}

// Invoke records the call and answers it with the first registration, in
// registration order, whose matcher accepts the request. The handler runs on
// its own goroutine; the returned Promise settles with its outcome. When no
// registration matches, the Promise is rejected with an *UnmockedError and a
// warning naming the call is logged.
func (r *Registry) Invoke(ctx context.Context, req *Request) *Promise {
	if req == nil {
		return Rejected(ErrNilRequest)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	recorded := req.Clone()
	at := r.cfg.Clock()
	reg := r.claim(recorded)

	r.mu.Lock()
	call := Call{
		Seq:     len(r.calls) + 1,
		ID:      uuid.NewString(),
		Request: recorded,
		At:      at,
	}
	if reg != nil {
		call.Registration = reg.key
	}
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	r.callCount.Inc()

	if reg == nil {
		r.unmockCount.Inc()
		r.cfg.Logger.Warn(unmockedMessage(call))
		return Rejected(&UnmockedError{Call: call})
	}

	r.cfg.Logger.Debug(fmt.Sprintf("call #%d %s matched %s", call.Seq, recorded, reg.key))

	p := newPromise()
	go r.run(ctx, p, reg.handler, recorded.Clone())
	return p
}

// Fetch invokes the registry and awaits the outcome.
func (r *Registry) Fetch(ctx context.Context, req *Request) (*Response, error) {
	return r.Invoke(ctx, req).Await(ctx)
}

// claim returns the first live registration accepting req and consumes one
// use of it. Matchers run without r.mu held, so they may call back into the
// registry. If the chosen registration is replaced, reset or used up before it
// can be claimed, the lookup starts over.
func (r *Registry) claim(req *Request) *registration {
	for {
		r.mu.Lock()
		live := make([]*registration, 0, len(r.regs))
		for _, reg := range r.regs {
			if !reg.exhausted() {
				live = append(live, reg)
			}
		}
		r.mu.Unlock()

		reg := r.lookup(live, req)
		if reg == nil {
			return nil
		}

		r.mu.Lock()
		ok := r.current(reg)
		if ok && reg.mode == ModeOnce {
			reg.uses--
		}
		r.mu.Unlock()
		if ok {
			return reg
		}
	}
}

// current must be called with r.mu held.
func (r *Registry) current(reg *registration) bool {
	if reg.exhausted() {
		return false
	}
	for _, cur := range r.regs {
		if cur == reg {
			return true
		}
	}
	return false
}

func (r *Registry) lookup(regs []*registration, req *Request) *registration {
	for _, reg := range regs {
		ok, err := matchSafely(reg.matcher, req)
		if err != nil {
			r.cfg.Logger.Debug(fmt.Sprintf("matcher %s errored on %s: %v", reg.key, req, err))
			continue
		}
		if ok {
			return reg
		}
	}
	return nil
}

// matchSafely reports a panicking matcher as an error.
func matchSafely(m Matcher, req *Request) (ok bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			ok, err = false, fmt.Errorf("%w: %v", ErrMatcherPanic, v)
		}
	}()
	return m.Match(req)
}

func (r *Registry) run(ctx context.Context, p *Promise, h Handler, req *Request) {
	start := r.cfg.Clock()
	defer func() {
		if v := recover(); v != nil {
			p.settle(nil, fmt.Errorf("%w: %v", ErrHandlerPanic, v))
		}
	}()

	resp, err := h(ctx, req)
	r.timing.Observe(r.cfg.Clock().Sub(start).Seconds())
	if err == nil && resp == nil {
		resp = emptyOK()
	}
	p.settle(resp, err)
}

// Reset clears every registration and the call record.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range r.regs {
		r.regGauge.Dec()
	}
	r.regs = nil
	r.calls = nil
	r.auto = 0
}

// Calls returns a copy of the recorded calls in the order they were made.
func (r *Registry) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsMatching returns the recorded calls whose request satisfies m.
func (r *Registry) CallsMatching(m Matcher) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if ok, err := m.Match(c.Request); err == nil && ok {
			out = append(out, c)
		}
	}
	return out
}

// Unmocked returns the recorded calls that no registration answered.
func (r *Registry) Unmocked() []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Unmocked() {
			out = append(out, c)
		}
	}
	return out
}

// Registrations returns the keys of the current registrations in match order.
func (r *Registry) Registrations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.regs))
	for _, reg := range r.regs {
		keys = append(keys, reg.key)
	}
	return keys
}

// Pending returns the keys of limited registrations that still have uses left.
func (r *Registry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var keys []string
	for _, reg := range r.regs {
		if reg.mode == ModeOnce && reg.uses > 0 {
			keys = append(keys, reg.key)
		}
	}
	return keys
}

func unmockedMessage(c Call) string {
	msg := fmt.Sprintf("unmocked call #%d %s id=%s", c.Seq, c.Request, c.ID)
	if len(c.Request.Body) > 0 {
		body := c.Request.Body
		if len(body) > maxBodyHint {
			body = body[:maxBodyHint]
		}
		msg += fmt.Sprintf(" body=%q", body)
	}
	return msg
}

type nopMetric struct{}

func (nopMetric) Inc()            {}
func (nopMetric) Dec()            {}
func (nopMetric) Observe(float64) {}
