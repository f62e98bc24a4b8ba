// Package goCSRF issues and verifies anti-forgery tokens bound to a per-session secret,
// without any server-side per-token storage.
//
// A caller generates a secret once per session ([Tokens.SecretSync], [Tokens.Secret] or
// [Tokens.SecretFunc]), keeps it server side, hands tokens from [Tokens.Create] to the
// client, and checks returned tokens with [Tokens.Verify].
//
// # Token format
//
// A token is
//
//	<salt>-<base64url(HASH(<salt> "-" <secret>))>
//
// The salt is a fresh run of [Config.SaltLength] characters from [0-9A-Za-z]; the hash
// segment is unpadded URL-safe base64, so tokens never contain '+', '/' or '='. The salt
// is everything before the first '-'. Tokens are only comparable within one hash
// algorithm and derivation.
//
// # Architecture boundaries
//
// goCSRF is the public surface. It exposes [Tokens], [Builder], [Config], and value types
// (MetricsSnapshot, AuditEvent, SecretResult). Randomness, audit dispatch and failure
// limiting live under internal/ and are never exported directly.
//
// # What this package must NOT do
//
//   - Store secrets or tokens, or decide how they travel between client and server.
//   - Rotate or expire secrets.
//   - Log or audit secret and token values.
//   - Raise errors from Verify: a wrong token is a normal false result.
//
// # Performance contract
//
// Verify is the hot path: one digest and one constant-time comparison, no I/O and no
// locks. Audit dispatch, when enabled, is asynchronous.
package goCSRF
