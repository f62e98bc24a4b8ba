package goCSRF

import (
	"crypto/rand"
	"io"
	"log/slog"

	"github.com/MrEthical07/goCSRF/internal/audit"
)

// Builder assembles a [Tokens] from configuration and collaborators.
//
// A Builder is single-use: Build may be called once.
type Builder struct {
	config    Config
	random    io.Reader
	logger    *slog.Logger
	auditSink AuditSink

	built bool
}

// NewBuilder starts from [DefaultConfig] and crypto/rand.
func NewBuilder() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSaltLength sets the number of salt characters in each token.
func (b *Builder) WithSaltLength(n int) *Builder {
	b.config.SaltLength = n
	return b
}

// WithSecretLength sets the number of random bytes behind each secret.
func (b *Builder) WithSecretLength(n int) *Builder {
	b.config.SecretLength = n
	return b
}

// WithHashAlgorithm selects the token digest; see [SupportedHashAlgorithms].
func (b *Builder) WithHashAlgorithm(name string) *Builder {
	b.config.HashAlgorithm = name
	return b
}

// WithTokenizer installs a custom derivation strategy in place of the hash-based default.
func (b *Builder) WithTokenizer(fn TokenizeFunc) *Builder {
	b.config.Tokenize = fn
	return b
}

// WithRandom overrides the secure random source. It exists for tests and
// hardware RNGs; never pass a non-cryptographic generator.
func (b *Builder) WithRandom(r io.Reader) *Builder {
	b.random = r
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink enables audit dispatch to sink, whatever the configuration
// says, regardless of call order. A nil sink leaves Config.Audit in charge.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns the codec. Invalid options
// fail with a [*ConfigError]; a second call fails with ErrBuilderUsed.
func (b *Builder) Build() (*Tokens, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if b.auditSink != nil {
		cfg.Audit.Enabled = true
		if cfg.Audit.BufferSize <= 0 {
			cfg.Audit.BufferSize = DefaultAuditBufferSize
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	newHash, _ := lookupHash(cfg.HashAlgorithm)
	cfg.HashAlgorithm = normalizeHashAlgorithm(cfg.HashAlgorithm)

	random := b.random
	if random == nil {
		random = rand.Reader
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := &Tokens{
		config:   cfg,
		newHash:  newHash,
		tokenize: cfg.Tokenize,
		random:   random,
		logger:   logger,
		metrics:  NewMetrics(cfg.Metrics),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink, logger),
	}

	b.built = true
	return t, nil
}
