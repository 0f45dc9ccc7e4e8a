package metrics

import (
	"errors"
	"regexp"

	"github.com/tarmac-project/fetchmock/host"
	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
)

const (
	capabilityName = "metrics"
	fnCounter      = "counter"
	fnGauge        = "gauge"
	fnHistogram    = "histogram"
	actionInc      = "inc"
	actionDec      = "dec"
)

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	// isMetricNameValid validates metric names using the same pattern as tarmac callback validation.
	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:][a-zA-Z0-9_:]*$`)
)

// Client creates named metric handles.
type Client interface {
	// NewCounter creates a named counter metric handle.
	NewCounter(name string) (Counter, error)

	// NewGauge creates a named gauge metric handle.
	NewGauge(name string) (Gauge, error)

	// NewHistogram creates a named histogram metric handle.
	NewHistogram(name string) (Histogram, error)
}

// Counter only goes up.
type Counter interface {
	Inc()
}

// Gauge moves in both directions.
type Gauge interface {
	Inc()
	Dec()
}

// Histogram records observed values.
type Histogram interface {
	Observe(value float64)
}

// Config controls how a host-backed Client interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig host.RuntimeConfig

	// HostCall overrides the waPC host function used for metrics operations.
	HostCall host.Call
}

// HostMetrics is the host-backed Client implementation.
type HostMetrics struct {
	runtime  host.RuntimeConfig
	hostCall host.Call
}

type hostCounter struct {
	name      string
	namespace string
	hostCall  host.Call
}

type hostGauge struct {
	name      string
	namespace string
	hostCall  host.Call
}

type hostHistogram struct {
	name      string
	namespace string
	hostCall  host.Call
}

// Ensure HostMetrics satisfies the Client interface at compile time.
var _ Client = (*HostMetrics)(nil)

// New creates a metrics client with namespace defaults and optional host-call override.
func New(config Config) (*HostMetrics, error) {
	return &HostMetrics{
		runtime:  config.SDKConfig.WithDefaults(),
		hostCall: host.Resolve(config.HostCall),
	}, nil
}

// ValidName reports whether name is an acceptable metric name.
func ValidName(name string) bool {
	return isMetricNameValid.MatchString(name)
}

// NewCounter creates a named counter metric handle.
func (c *HostMetrics) NewCounter(name string) (Counter, error) {
	if !ValidName(name) {
		return nil, ErrInvalidMetricName
	}

	return &hostCounter{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// Inc increments the counter by one.
func (c *hostCounter) Inc() {
	payload, err := (&proto.MetricsCounter{Name: c.name}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = c.hostCall(c.namespace, capabilityName, fnCounter, payload)
}

// NewGauge creates a named gauge metric handle.
func (c *HostMetrics) NewGauge(name string) (Gauge, error) {
	if !ValidName(name) {
		return nil, ErrInvalidMetricName
	}

	return &hostGauge{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

func (g *hostGauge) Inc() { g.emit(actionInc) }
func (g *hostGauge) Dec() { g.emit(actionDec) }

// emit sends a gauge action update to the host runtime as a best-effort call.
func (g *hostGauge) emit(action string) {
	payload, err := (&proto.MetricsGauge{Name: g.name, Action: action}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = g.hostCall(g.namespace, capabilityName, fnGauge, payload)
}

// NewHistogram creates a named histogram metric handle.
func (c *HostMetrics) NewHistogram(name string) (Histogram, error) {
	if !ValidName(name) {
		return nil, ErrInvalidMetricName
	}

	return &hostHistogram{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// Observe records a value for the histogram.
func (h *hostHistogram) Observe(value float64) {
	payload, err := (&proto.MetricsHistogram{Name: h.name, Value: value}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = h.hostCall(h.namespace, capabilityName, fnHistogram, payload)
}
