package goCSRF

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter or histogram.
type MetricID uint16

const (
	// MetricTokenCreated counts tokens returned by Create.
	MetricTokenCreated MetricID = iota
	// MetricTokenCreateFailure counts Create calls that returned an error.
	MetricTokenCreateFailure
	// MetricVerifySuccess counts tokens that verified.
	MetricVerifySuccess
	// MetricVerifyFailure counts well-formed tokens that did not match the secret.
	MetricVerifyFailure
	// MetricVerifyMalformed counts Verify calls rejected before hashing
	// (empty secret, empty token, missing separator).
	MetricVerifyMalformed
	// MetricSecretGenerated counts secrets handed out by any Secret variant.
	MetricSecretGenerated
	// MetricSecretFailure counts secret requests that failed on the random source.
	MetricSecretFailure
	// MetricRateLimited counts requests refused by a FailureLimiter.
	MetricRateLimited
	// MetricVerifyLatency is the only histogram-backed metric and must stay last.
	MetricVerifyLatency
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

// latencyBucketBounds are the inclusive upper bounds of every bucket except
// the last; Verify runs in microseconds, so they are far finer than a
// request-level histogram.
var latencyBucketBounds = [histBucketCount - 1]time.Duration{
	1 * time.Microsecond,
	2 * time.Microsecond,
	5 * time.Microsecond,
	10 * time.Microsecond,
	25 * time.Microsecond,
	50 * time.Microsecond,
	100 * time.Microsecond,
}

// counterCell keeps each counter on its own cache line so concurrent
// Create and Verify calls do not contend.
type counterCell struct {
	n atomic.Uint64
	_ [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters for a Tokens instance.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [MetricVerifyLatency]counterCell
	latency       [histBucketCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the verify latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if !m.Enabled() || id >= MetricVerifyLatency {
		return
	}
	m.counters[id].n.Add(1)
}

// Observe records d in the histogram for id. Only MetricVerifyLatency is histogram-backed.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if !m.LatencyEnabled() || id != MetricVerifyLatency {
		return
	}
	m.latency[bucketIndex(d)].Add(1)
}

// Value returns the current count for id, or zero for histogram IDs.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= MetricVerifyLatency {
		return 0
	}
	return m.counters[id].n.Load()
}

// Snapshot copies the current values. Disabled metrics yield empty maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if !m.Enabled() {
		return s
	}

	for id := MetricID(0); id < MetricVerifyLatency; id++ {
		s.Counters[id] = m.counters[id].n.Load()
	}
	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := range buckets {
			buckets[i] = m.latency[i].Load()
		}
		s.Histograms[MetricVerifyLatency] = buckets
	}
	return s
}

func bucketIndex(d time.Duration) int {
	for i, bound := range latencyBucketBounds {
		if d <= bound {
			return i
		}
	}
	return histBucketCount - 1
}
