// Package otel provides OpenTelemetry metric exporter bindings for goCSRF counters and
// the verify latency histogram.
//
// [NewOTelExporter] registers an Int64ObservableCounter for each goCSRF counter and, per
// histogram, one Int64ObservableGauge of cumulative bucket counts keyed by an "le"
// attribute plus a count gauge. A single callback reads [goCSRF.Tokens.MetricsSnapshot]
// on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate codec state.
package otel
