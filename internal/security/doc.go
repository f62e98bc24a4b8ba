// Package security derives a strength report from a token configuration:
// digest size, salt and secret entropy, and warnings for weak settings.
//
// # What this package must NOT do
//
//   - Inspect secret or token values. Reports are computed from configuration only.
package security
