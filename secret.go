package goCSRF

import (
	"context"

	"github.com/MrEthical07/goCSRF/internal"
)

// SecretResult carries the outcome of an asynchronous [Tokens.Secret] call.
type SecretResult struct {
	Secret string
	Err    error
}

// SecretSync reads SecretLength bytes from the secure random source and
// returns them as unpadded URL-safe base64.
//
// The only failure is the random source itself failing, reported as
// ErrRandomnessUnavailable. There is no retry and no fallback.
func (t *Tokens) SecretSync() (string, error) {
	secret, err := internal.NewSecret(t.random, t.config.SecretLength)
	if err != nil {
		t.metrics.Inc(MetricSecretFailure)
		t.logger.Error("goCSRF: secret generation failed", "error", err)
		t.emitAudit(context.Background(), AuditSecretFailure, err.Error(), nil)
		return "", randomnessError(err)
	}

	t.metrics.Inc(MetricSecretGenerated)
	return secret, nil
}

// Secret generates a secret on its own goroutine. The returned channel
// receives exactly one SecretResult and is then closed.
//
// There is no cancellation or timeout; a caller that stops waiting simply
// abandons the result.
func (t *Tokens) Secret() <-chan SecretResult {
	out := make(chan SecretResult, 1)
	go func() {
		defer close(out)
		secret, err := t.SecretSync()
		out <- SecretResult{Secret: secret, Err: err}
	}()
	return out
}

// SecretFunc is the callback form of [Tokens.Secret]: cb is invoked exactly
// once, from another goroutine, with either a secret or an error.
//
// A nil cb fails immediately with ErrInvalidArgument.
func (t *Tokens) SecretFunc(cb func(secret string, err error)) error {
	if cb == nil {
		return argumentError("callback")
	}
	go func() {
		cb(t.SecretSync())
	}()
	return nil
}
