// Package rate provides internal limiters that throttle clients which keep
// presenting tokens that fail verification.
//
// # Window semantics
//
// Redis: fixed-window counters, INCR + EXPIRE on first hit. Keys are
// <prefix>:vf:<hashed client key>, so raw client identifiers never reach Redis.
//
// Local: one golang.org/x/time/rate token bucket per client key, refilled at
// MaxFailures per Window with a burst of MaxFailures.
//
// # What this package must NOT do
//
//   - Verify tokens (goCSRF.Tokens does that).
//   - Be imported outside the goCSRF module.
package rate
