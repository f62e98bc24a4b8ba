// Package middleware exposes an HTTP adapter that wires goCSRF token minting and
// verification into a host application.
//
// # Protect
//
// [Protect] wraps a handler. On safe methods (GET, HEAD, OPTIONS, TRACE by default) it
// only makes a token available through [Token]. On every other method it reads the
// token from a header or form field, verifies it against the session secret returned
// by Options.Secret, and rejects the request with 403 on mismatch. An optional
// goCSRF.FailureLimiter answers 429 to clients that keep failing.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Tokens calls. It does NOT implement the
// token scheme itself; every decision is delegated to Tokens.Verify.
//
// # What this package must NOT do
//
//   - Store or generate session secrets (Options.Secret reads the host's session).
//   - Set cookies or choose how tokens reach the client.
//   - Log secret or token values.
package middleware
