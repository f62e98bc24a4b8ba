package internal

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// SaltAlphabet holds the characters a salt may contain. None of them is the
// token separator '-', so splitting a token at its first '-' recovers the salt.
const SaltAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Largest multiple of len(SaltAlphabet) that fits in a byte; bytes at or
// above it are rejected so every character is equally likely.
const saltRejectThreshold = 256 - 256%len(SaltAlphabet)

// NewSecret reads n bytes from r and returns them as unpadded URL-safe base64.
func NewSecret(r io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid secret length")
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read secret bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewSalt returns n characters drawn uniformly from SaltAlphabet.
func NewSalt(r io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid salt length")
	}

	out := make([]byte, 0, n)
	// Over-read a little so a few rejected bytes rarely cost another read.
	buf := make([]byte, n+n/4+1)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read salt bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= saltRejectThreshold {
				continue
			}
			out = append(out, SaltAlphabet[int(b)%len(SaltAlphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}

// EncodedSecretLength reports how many characters NewSecret returns for n bytes.
func EncodedSecretLength(n int) int {
	return base64.RawURLEncoding.EncodedLen(n)
}
