package security

import (
	"encoding/base64"
	"math"
)

// Thresholds below which BuildReport adds a warning.
const (
	MinDigestBits        = 256
	MinSecretEntropyBits = 128
	MinSaltLength        = 8
)

// ReportInput is the codec configuration a Report is derived from.
type ReportInput struct {
	HashAlgorithm   string
	DigestSize      int // bytes
	SaltLength      int
	SaltAlphabet    int
	SecretLength    int // bytes
	CustomTokenizer bool
	MetricsEnabled  bool
	AuditEnabled    bool
}

// Report summarizes the strength of a token configuration.
type Report struct {
	HashAlgorithm     string   `json:"hash_algorithm" yaml:"hash_algorithm"`
	DigestBits        int      `json:"digest_bits" yaml:"digest_bits"`
	TokenLength       int      `json:"token_length" yaml:"token_length"`
	SaltLength        int      `json:"salt_length" yaml:"salt_length"`
	SaltEntropyBits   float64  `json:"salt_entropy_bits" yaml:"salt_entropy_bits"`
	SecretLength      int      `json:"secret_length" yaml:"secret_length"`
	SecretEntropyBits int      `json:"secret_entropy_bits" yaml:"secret_entropy_bits"`
	CustomTokenizer   bool     `json:"custom_tokenizer" yaml:"custom_tokenizer"`
	MetricsEnabled    bool     `json:"metrics_enabled" yaml:"metrics_enabled"`
	AuditEnabled      bool     `json:"audit_enabled" yaml:"audit_enabled"`
	Warnings          []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func BuildReport(input ReportInput) Report {
	r := Report{
		HashAlgorithm:     input.HashAlgorithm,
		DigestBits:        input.DigestSize * 8,
		SaltLength:        input.SaltLength,
		SecretLength:      input.SecretLength,
		SecretEntropyBits: input.SecretLength * 8,
		CustomTokenizer:   input.CustomTokenizer,
		MetricsEnabled:    input.MetricsEnabled,
		AuditEnabled:      input.AuditEnabled,
	}
	if input.SaltAlphabet > 1 {
		bits := float64(input.SaltLength) * math.Log2(float64(input.SaltAlphabet))
		r.SaltEntropyBits = math.Round(bits*10) / 10
	}

	if input.CustomTokenizer {
		// Length and digest depend on the caller's derivation.
		r.DigestBits = 0
		r.Warnings = append(r.Warnings, "custom tokenizer in use; digest settings do not apply")
	} else {
		r.TokenLength = input.SaltLength + 1 + base64.RawURLEncoding.EncodedLen(input.DigestSize)
		if r.DigestBits < MinDigestBits {
			r.Warnings = append(r.Warnings, "token digest is shorter than 256 bits")
		}
	}

	if r.SecretEntropyBits < MinSecretEntropyBits {
		r.Warnings = append(r.Warnings, "secret carries less than 128 bits of entropy")
	}
	if input.SaltLength < MinSaltLength {
		r.Warnings = append(r.Warnings, "salt is shorter than 8 characters")
	}

	return r
}
