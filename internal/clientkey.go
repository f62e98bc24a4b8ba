package internal

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashClientKey turns a client identifier (usually an IP) into a fixed-size
// opaque key so raw identifiers never reach shared storage.
func HashClientKey(v string) string {
	sum := sha256.Sum256([]byte(v))
	return base64.RawURLEncoding.EncodeToString(sum[:16])
}
