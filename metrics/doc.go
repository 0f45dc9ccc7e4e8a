/*
Package metrics provides the counters, gauges, and histograms a fetch mock
registry reports.

Two implementations of Client are available. New creates handles backed by
protobuf payloads sent over waPC host calls to the Tarmac metrics capability.
NewTally keeps every value in memory so tests can read them back.

Metric emission methods follow Prometheus-style ergonomics: Inc/Dec/Observe
are best-effort and do not return errors. Marshal or host-call failures are
swallowed so they never change the caller's control flow.
*/
package metrics
