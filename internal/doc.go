// Package internal contains helper utilities that are intentionally private to goCSRF,
// including secure salt/secret generation and client key hashing.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - rate: Redis-backed and in-process limiters for repeated verification failures
//   - security: configuration posture report (digest size, entropy estimates, warnings)
//
// # What this package must NOT do
//
//   - Export types that appear in the public goCSRF API.
//   - Use math/rand: every byte comes from the caller-supplied reader.
//   - Be imported by any package outside the goCSRF module.
package internal
