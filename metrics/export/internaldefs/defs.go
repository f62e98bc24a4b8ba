package internaldefs

import (
	goCSRF "github.com/MrEthical07/goCSRF"
)

// CounterDef binds a counter MetricID to its exported name.
type CounterDef struct {
	ID   goCSRF.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram MetricID to its exported name.
type HistogramDef struct {
	ID   goCSRF.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const AuditDroppedName = "gocsrf_audit_dropped_total"

// AuditDroppedHelp is an exported constant or variable used by the exporters.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// CounterDefs lists every counter in export order.
var CounterDefs = []CounterDef{
	{ID: goCSRF.MetricTokenCreated, Name: "gocsrf_token_created_total", Help: "Tokens minted by Create."},
	{ID: goCSRF.MetricTokenCreateFailure, Name: "gocsrf_token_create_failure_total", Help: "Create calls that returned an error."},
	{ID: goCSRF.MetricVerifySuccess, Name: "gocsrf_verify_success_total", Help: "Tokens that verified against their secret."},
	{ID: goCSRF.MetricVerifyFailure, Name: "gocsrf_verify_failure_total", Help: "Well-formed tokens that did not match their secret."},
	{ID: goCSRF.MetricVerifyMalformed, Name: "gocsrf_verify_malformed_total", Help: "Verify calls rejected before hashing."},
	{ID: goCSRF.MetricSecretGenerated, Name: "gocsrf_secret_generated_total", Help: "Secrets generated."},
	{ID: goCSRF.MetricSecretFailure, Name: "gocsrf_secret_failure_total", Help: "Secret generations that failed on the random source."},
	{ID: goCSRF.MetricRateLimited, Name: "gocsrf_rate_limited_total", Help: "Requests refused by a failure limiter."},
}

// HistogramDefs lists every histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: goCSRF.MetricVerifyLatency, Name: "gocsrf_verify_latency_seconds", Help: "Verify latency histogram."},
}

// HistogramUpperBounds are the bucket upper bounds in seconds; the last
// bucket is unbounded and not listed.
var HistogramUpperBounds = []float64{
	0.000001,
	0.000002,
	0.000005,
	0.00001,
	0.000025,
	0.00005,
	0.0001,
}

// HistogramBoundSuffix names each bucket, including the unbounded one.
var HistogramBoundSuffix = []string{
	"1us",
	"2us",
	"5us",
	"10us",
	"25us",
	"50us",
	"100us",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
