package metrics

import (
	"errors"
	"reflect"
	"testing"

	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	"github.com/tarmac-project/fetchmock/host"
)

// routedHost returns a host call that checks routing and hands the payload to validate.
func routedHost(t *testing.T, function string, validate func([]byte) error, fail error) host.Call {
	t.Helper()
	return func(namespace, capability, fn string, payload []byte) ([]byte, error) {
		if namespace != host.DefaultNamespace {
			t.Errorf("namespace: want %q got %q", host.DefaultNamespace, namespace)
		}
		if capability != capabilityName {
			t.Errorf("capability: want %q got %q", capabilityName, capability)
		}
		if fn != function {
			t.Errorf("function: want %q got %q", function, fn)
		}
		if err := validate(payload); err != nil {
			t.Errorf("payload: %v", err)
		}
		return nil, fail
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	customHostCall := func(string, string, string, []byte) ([]byte, error) {
		return nil, nil
	}

	tt := []struct {
		name        string
		namespace   string
		hostCall    host.Call
		wantNS      string
		wantHostPtr uintptr
	}{
		{
			name:      "custom namespace",
			namespace: "custom",
			wantNS:    "custom",
		},
		{
			name:        "default namespace with override",
			hostCall:    customHostCall,
			wantNS:      host.DefaultNamespace,
			wantHostPtr: reflect.ValueOf(customHostCall).Pointer(),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(Config{SDKConfig: host.RuntimeConfig{Namespace: tc.namespace}, HostCall: tc.hostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			if c.runtime.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, c.runtime.Namespace)
			}

			if tc.wantHostPtr != 0 {
				if got := reflect.ValueOf(c.hostCall).Pointer(); got != tc.wantHostPtr {
					t.Fatalf("hostcall pointer mismatch: want %v, got %v", tc.wantHostPtr, got)
				}
			}
		})
	}
}

func TestMetricConstructors(t *testing.T) {
	t.Parallel()

	hostBacked, err := New(Config{
		HostCall: func(string, string, string, []byte) ([]byte, error) {
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	clients := map[string]Client{
		"host":  hostBacked,
		"tally": NewTally(),
	}

	tt := []struct {
		name       string
		construct  func(Client, string) error
		metricName string
		wantErr    error
	}{
		{
			name:       "counter valid",
			construct:  func(c Client, n string) error { _, err := c.NewCounter(n); return err },
			metricName: "fetchmock_calls_total",
		},
		{
			name:       "gauge valid",
			construct:  func(c Client, n string) error { _, err := c.NewGauge(n); return err },
			metricName: "fetchmock_registrations",
		},
		{
			name:       "histogram valid",
			construct:  func(c Client, n string) error { _, err := c.NewHistogram(n); return err },
			metricName: "fetchmock_handler_seconds",
		},
		{
			name:       "counter empty name",
			construct:  func(c Client, n string) error { _, err := c.NewCounter(n); return err },
			metricName: "",
			wantErr:    ErrInvalidMetricName,
		},
		{
			name:       "gauge whitespace name",
			construct:  func(c Client, n string) error { _, err := c.NewGauge(n); return err },
			metricName: " \n\t ",
			wantErr:    ErrInvalidMetricName,
		},
		{
			name:       "histogram dashed name",
			construct:  func(c Client, n string) error { _, err := c.NewHistogram(n); return err },
			metricName: "handler-seconds",
			wantErr:    ErrInvalidMetricName,
		},
	}

	for clientName, client := range clients {
		for _, tc := range tt {
			t.Run(clientName+"/"+tc.name, func(t *testing.T) {
				gotErr := tc.construct(client, tc.metricName)
				if !errors.Is(gotErr, tc.wantErr) {
					t.Fatalf("unexpected error: want %v got %v", tc.wantErr, gotErr)
				}
			})
		}
	}
}

func TestCounterInc(t *testing.T) {
	t.Parallel()

	hostCall := routedHost(t, fnCounter, func(payload []byte) error {
		var req proto.MetricsCounter
		if err := req.UnmarshalVT(payload); err != nil {
			return err
		}
		if req.GetName() != "fetchmock_calls_total" {
			return errors.New("metric name mismatch")
		}
		return nil
	}, errors.New("host failure should not panic"))

	c, err := New(Config{HostCall: hostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	counter, err := c.NewCounter("fetchmock_calls_total")
	if err != nil {
		t.Fatalf("NewCounter returned error: %v", err)
	}

	counter.Inc()
}

func TestGaugeActions(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name           string
		invoke         func(Gauge)
		expectedAction string
	}{
		{"inc", func(g Gauge) { g.Inc() }, actionInc},
		{"dec", func(g Gauge) { g.Dec() }, actionDec},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			hostCall := routedHost(t, fnGauge, func(payload []byte) error {
				var req proto.MetricsGauge
				if err := req.UnmarshalVT(payload); err != nil {
					return err
				}
				if req.GetName() != "fetchmock_registrations" {
					return errors.New("metric name mismatch")
				}
				if req.GetAction() != tc.expectedAction {
					return errors.New("action mismatch")
				}
				return nil
			}, nil)

			c, err := New(Config{HostCall: hostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			gauge, err := c.NewGauge("fetchmock_registrations")
			if err != nil {
				t.Fatalf("NewGauge returned error: %v", err)
			}

			tc.invoke(gauge)
		})
	}
}

func TestHistogramObserve(t *testing.T) {
	t.Parallel()

	hostCall := routedHost(t, fnHistogram, func(payload []byte) error {
		var req proto.MetricsHistogram
		if err := req.UnmarshalVT(payload); err != nil {
			return err
		}
		if req.GetName() != "fetchmock_handler_seconds" {
			return errors.New("metric name mismatch")
		}
		if req.GetValue() != 42.5 {
			return errors.New("metric value mismatch")
		}
		return nil
	}, errors.New("host failure should not panic"))

	c, err := New(Config{HostCall: hostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	histogram, err := c.NewHistogram("fetchmock_handler_seconds")
	if err != nil {
		t.Fatalf("NewHistogram returned error: %v", err)
	}

	histogram.Observe(42.5)
}

func TestTally(t *testing.T) {
	t.Parallel()

	tally := NewTally()

	counter, _ := tally.NewCounter("calls")
	again, _ := tally.NewCounter("calls")
	counter.Inc()
	again.Inc()

	gauge, _ := tally.NewGauge("registrations")
	gauge.Inc()
	gauge.Inc()
	gauge.Dec()

	histogram, _ := tally.NewHistogram("seconds")
	histogram.Observe(0.5)
	histogram.Observe(1.5)

	if got := tally.Count("calls"); got != 2 {
		t.Errorf("counter: want 2 got %d", got)
	}
	if got := tally.Gauge("registrations"); got != 1 {
		t.Errorf("gauge: want 1 got %d", got)
	}
	if got := tally.Observations("seconds"); !reflect.DeepEqual(got, []float64{0.5, 1.5}) {
		t.Errorf("observations: want [0.5 1.5] got %v", got)
	}
	if got := tally.Count("missing"); got != 0 {
		t.Errorf("missing counter: want 0 got %d", got)
	}
}
