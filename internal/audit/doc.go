// Package audit implements async event dispatching for security-relevant token outcomes.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, slog, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured audit record with ID, timestamp, type, reason, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; that responsibility belongs to goCSRF.Tokens and the middleware.
//
// # What this package must NOT do
//
//   - Record secret or token values.
//   - Import goCSRF or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
