package goCSRF

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrEthical07/goCSRF/internal"
	"github.com/MrEthical07/goCSRF/internal/audit"
)

const tokenSeparator = "-"

// Tokens issues and verifies anti-forgery tokens bound to a secret.
//
// A Tokens value is immutable after construction; Create, Verify and
// Tokenize are safe for concurrent use without coordination.
type Tokens struct {
	config   Config
	newHash  hashFactory
	tokenize TokenizeFunc
	random   io.Reader
	logger   *slog.Logger
	metrics  *Metrics
	audit    *audit.Dispatcher
}

// New validates cfg and returns a codec using crypto/rand and no audit sink.
// It is shorthand for NewBuilder().WithConfig(cfg).Build().
func New(cfg Config) (*Tokens, error) {
	return NewBuilder().WithConfig(cfg).Build()
}

// Config returns a copy of the configuration the codec was built with.
func (t *Tokens) Config() Config {
	return t.config
}

// Tokenize derives the token for secret and salt. The result is
// deterministic: identical inputs always yield identical tokens.
//
// The default derivation is
//
//	salt + "-" + base64url(HASH(salt + "-" + secret))
//
// with unpadded URL-safe base64, so the hash segment only contains
// [A-Za-z0-9_-]. This concatenation order is part of the wire format.
func (t *Tokens) Tokenize(secret, salt string) string {
	if t.tokenize != nil {
		return t.tokenize(secret, salt)
	}
	return t.defaultTokenize(secret, salt)
}

func (t *Tokens) defaultTokenize(secret, salt string) string {
	h := t.newHash()
	_, _ = io.WriteString(h, salt)
	_, _ = io.WriteString(h, tokenSeparator)
	_, _ = io.WriteString(h, secret)
	sum := h.Sum(nil)

	var b strings.Builder
	b.Grow(len(salt) + len(tokenSeparator) + base64.RawURLEncoding.EncodedLen(len(sum)))
	b.WriteString(salt)
	b.WriteString(tokenSeparator)
	b.WriteString(base64.RawURLEncoding.EncodeToString(sum))
	return b.String()
}

// Create mints a new token for secret using a fresh random salt.
//
// An empty secret fails with ErrInvalidArgument before any entropy is
// consumed; a failing random source fails with ErrRandomnessUnavailable.
func (t *Tokens) Create(secret string) (string, error) {
	if secret == "" {
		t.metrics.Inc(MetricTokenCreateFailure)
		return "", argumentError("secret")
	}

	salt, err := internal.NewSalt(t.random, t.config.SaltLength)
	if err != nil {
		t.metrics.Inc(MetricTokenCreateFailure)
		t.logger.Error("goCSRF: salt generation failed", "error", err)
		return "", randomnessError(err)
	}

	t.metrics.Inc(MetricTokenCreated)
	return t.Tokenize(secret, salt), nil
}

// Verify reports whether token was derived from secret.
//
// Verify never panics and never returns an error: an empty secret, an empty
// token or a token without a '-' separator is simply false. Otherwise the
// token is split at its first '-', the expected token is re-derived from the
// extracted salt, and the two full strings are compared in constant time.
func (t *Tokens) Verify(secret, token string) bool {
	if t.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { t.metrics.Observe(MetricVerifyLatency, time.Since(start)) }()
	}

	if secret == "" || token == "" {
		t.verifyMalformed("missing secret or token")
		return false
	}

	salt, _, ok := strings.Cut(token, tokenSeparator)
	if !ok {
		t.verifyMalformed("missing separator")
		return false
	}

	expected := t.Tokenize(secret, salt)
	if !constantTimeEqual(token, expected) {
		t.metrics.Inc(MetricVerifyFailure)
		t.emitAudit(context.Background(), AuditVerifyFailure, "token mismatch", nil)
		return false
	}

	t.metrics.Inc(MetricVerifySuccess)
	return true
}

func (t *Tokens) verifyMalformed(reason string) {
	t.metrics.Inc(MetricVerifyMalformed)
	t.emitAudit(context.Background(), AuditVerifyMalformed, reason, nil)
}

// constantTimeEqual short-circuits only on length, which is not secret.
// Equal-length inputs are compared byte by byte without early exit.
func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// MetricsSnapshot returns the current counters; see [Metrics.Snapshot].
func (t *Tokens) MetricsSnapshot() MetricsSnapshot {
	if t == nil {
		return (*Metrics)(nil).Snapshot()
	}
	return t.metrics.Snapshot()
}

// Close drains pending audit events. The codec itself holds no other resources
// and stays usable after Close, but further audit events are discarded.
func (t *Tokens) Close() {
	if t == nil {
		return
	}
	t.audit.Close()
}
