package metrics

import "sync"

// Tally is an in-memory Client. Handles with the same name share state.
type Tally struct {
	mu           sync.Mutex
	counters     map[string]int64
	gauges       map[string]int64
	observations map[string][]float64
}

var _ Client = (*Tally)(nil)

// NewTally creates an empty Tally.
func NewTally() *Tally {
	return &Tally{
		counters:     make(map[string]int64),
		gauges:       make(map[string]int64),
		observations: make(map[string][]float64),
	}
}

type tallyHandle struct {
	t    *Tally
	name string
}

func (h tallyHandle) Inc() { h.t.add(h.t.counters, h.name, 1) }

type tallyGauge struct{ tallyHandle }

func (g tallyGauge) Inc() { g.t.add(g.t.gauges, g.name, 1) }
func (g tallyGauge) Dec() { g.t.add(g.t.gauges, g.name, -1) }

func (h tallyHandle) Observe(value float64) {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	h.t.observations[h.name] = append(h.t.observations[h.name], value)
}

func (t *Tally) add(m map[string]int64, name string, delta int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m[name] += delta
}

// NewCounter creates a named counter handle.
func (t *Tally) NewCounter(name string) (Counter, error) {
	if !ValidName(name) {
		return nil, ErrInvalidMetricName
	}
	return tallyHandle{t: t, name: name}, nil
}

// NewGauge creates a named gauge handle.
func (t *Tally) NewGauge(name string) (Gauge, error) {
	if !ValidName(name) {
		return nil, ErrInvalidMetricName
	}
	return tallyGauge{tallyHandle{t: t, name: name}}, nil
}

// NewHistogram creates a named histogram handle.
func (t *Tally) NewHistogram(name string) (Histogram, error) {
	if !ValidName(name) {
		return nil, ErrInvalidMetricName
	}
	return tallyHandle{t: t, name: name}, nil
}

// Count returns the current value of a counter.
func (t *Tally) Count(name string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[name]
}

// Gauge returns the current value of a gauge.
func (t *Tally) Gauge(name string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gauges[name]
}

// Observations returns a copy of the values observed by a histogram.
func (t *Tally) Observations(name string) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]float64(nil), t.observations[name]...)
}
