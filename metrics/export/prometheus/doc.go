// Package prometheus provides a Prometheus collector for goCSRF metrics.
//
// [NewPrometheusExporter] wraps a [goCSRF.Tokens] in a prometheus.Collector built on
// client_golang const metrics. Counter names are prefixed gocsrf_*_total; the single
// histogram is gocsrf_verify_latency_seconds. [PrometheusExporter.Handler] serves a
// private registry, or the exporter can be registered with a caller's registry.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry.
//   - Mutate codec state.
package prometheus
