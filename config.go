package goCSRF

const (
	// DefaultSaltLength is the number of salt characters embedded in each token.
	DefaultSaltLength = 8
	// DefaultSecretLength is the number of random bytes behind each secret.
	DefaultSecretLength = 18
	// DefaultAuditBufferSize is the audit queue length used when audit is enabled.
	DefaultAuditBufferSize = 256
)

// TokenizeFunc derives a token from a secret and a salt.
//
// A custom TokenizeFunc must be deterministic and must return a value whose
// salt segment (everything before the first '-') equals salt, otherwise
// Verify cannot recover the salt it needs.
type TokenizeFunc func(secret, salt string) string

// Config is the complete, validated configuration of a Tokens instance.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	SaltLength    int
	SecretLength  int
	HashAlgorithm string
	Tokenize      TokenizeFunc
	Metrics       MetricsConfig
	Audit         AuditConfig
}

/*
====================================
OBSERVABILITY CONFIG
====================================
*/

// MetricsConfig defines a public type used by goCSRF APIs.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// AuditConfig controls asynchronous audit dispatch.
//
// With DropIfFull set, events are dropped (and counted) instead of blocking
// the request path when the buffer is full.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig returns the configuration used when no options are given:
// 8 salt characters, 18 secret bytes and a sha1 token hash.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		SaltLength:    DefaultSaltLength,
		SecretLength:  DefaultSecretLength,
		HashAlgorithm: DefaultHashAlgorithm,
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: DefaultAuditBufferSize,
			DropIfFull: true,
		},
	}
}

// Validate checks every option and reports the first violation as a
// [*ConfigError]. Values are never coerced.
func (c *Config) Validate() error {
	if c.SaltLength < 1 {
		return configError("saltLength", "must be an integer >= 1")
	}
	if c.SecretLength < 1 {
		return configError("secretLength", "must be an integer >= 1")
	}
	if c.HashAlgorithm == "" {
		return configError("hashAlgorithm", "must be a non-empty string")
	}
	if _, ok := lookupHash(c.HashAlgorithm); !ok {
		return configError("hashAlgorithm", "names an unsupported hash function: "+c.HashAlgorithm)
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return configError("audit.bufferSize", "must be > 0 when audit is enabled")
	}
	if !c.Metrics.Enabled && c.Metrics.EnableLatencyHistograms {
		return configError("metrics.enableLatencyHistograms", "requires metrics to be enabled")
	}
	return nil
}
