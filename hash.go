package goCSRF

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// DefaultHashAlgorithm is the 160-bit digest used when Config.HashAlgorithm is empty.
// The token hash is an integrity check, not a MAC, so a short digest keeps cookies small.
const DefaultHashAlgorithm = "sha1"

type hashFactory func() hash.Hash

var hashAlgorithms = map[string]hashFactory{
	"sha1":        sha1.New,
	"sha224":      sha256.New224,
	"sha256":      sha256.New,
	"sha384":      sha512.New384,
	"sha512":      sha512.New,
	"sha512-256":  sha512.New512_256,
	"sha3-224":    sha3.New224,
	"sha3-256":    sha3.New256,
	"sha3-384":    sha3.New384,
	"sha3-512":    sha3.New512,
	"blake2b-256": unkeyed(blake2b.New256),
	"blake2b-384": unkeyed(blake2b.New384),
	"blake2b-512": unkeyed(blake2b.New512),
	"blake2s-256": unkeyed(blake2s.New256),
}

// unkeyed adapts the keyed blake2 constructors. With a nil key they cannot fail.
func unkeyed(fn func(key []byte) (hash.Hash, error)) hashFactory {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			panic("goCSRF: unkeyed blake2 constructor failed: " + err.Error())
		}
		return h
	}
}

func normalizeHashAlgorithm(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", "-")
}

func lookupHash(name string) (hashFactory, bool) {
	fn, ok := hashAlgorithms[normalizeHashAlgorithm(name)]
	return fn, ok
}

// SupportedHashAlgorithms returns the accepted HashAlgorithm identifiers in sorted order.
func SupportedHashAlgorithms() []string {
	out := make([]string, 0, len(hashAlgorithms))
	for name := range hashAlgorithms {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
