package goCSRF

import (
	"context"
	"io"
	"log/slog"

	"github.com/MrEthical07/goCSRF/internal/audit"
)

// Audit event types emitted by Tokens and the middleware.
const (
	AuditVerifyFailure   = "csrf_verify_failure"
	AuditVerifyMalformed = "csrf_verify_malformed"
	AuditSecretFailure   = "csrf_secret_failure"
	AuditRateLimited     = "csrf_rate_limited"
)

// AuditEvent is a structured record of a security-relevant outcome. It never
// contains secret or token values.
type AuditEvent = audit.Event

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink drops every event.
type NoOpSink = audit.NoOpSink

// ChannelSink defines a public type used by goCSRF APIs.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// SlogSink logs events through a *slog.Logger.
type SlogSink = audit.SlogSink

// NewChannelSink describes the newchannelsink operation and its observable behavior.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink writes one JSON object per event to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewSlogSink returns a sink that logs through logger (slog.Default when nil).
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return audit.NewSlogSink(logger)
}

func (t *Tokens) emitAudit(ctx context.Context, eventType, reason string, metadata map[string]string) {
	if t == nil || t.audit == nil {
		return
	}
	event := audit.NewEvent(eventType, false, reason)
	event.Metadata = metadata
	t.audit.Emit(ctx, event)
}

// ReportRateLimited records a request refused by a failure limiter.
// Host adapters such as the middleware call it; the codec itself never rate limits.
func (t *Tokens) ReportRateLimited(ctx context.Context, metadata map[string]string) {
	if t == nil {
		return
	}
	t.metrics.Inc(MetricRateLimited)
	t.emitAudit(ctx, AuditRateLimited, "failure limit exceeded", metadata)
}

// AuditDropped reports how many audit events were discarded under backpressure.
func (t *Tokens) AuditDropped() uint64 {
	if t == nil {
		return 0
	}
	return t.audit.Dropped()
}
