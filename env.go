package goCSRF

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	SaltLength       int    `env:"GOCSRF_SALT_LENGTH"       envDefault:"8"`
	SecretLength     int    `env:"GOCSRF_SECRET_LENGTH"     envDefault:"18"`
	HashAlgorithm    string `env:"GOCSRF_HASH_ALGORITHM"    envDefault:"sha1"`
	MetricsEnabled   bool   `env:"GOCSRF_METRICS_ENABLED"   envDefault:"true"`
	LatencyEnabled   bool   `env:"GOCSRF_METRICS_LATENCY"   envDefault:"false"`
	AuditEnabled     bool   `env:"GOCSRF_AUDIT_ENABLED"     envDefault:"false"`
	AuditBufferSize  int    `env:"GOCSRF_AUDIT_BUFFER_SIZE" envDefault:"256"`
	AuditBlockIfFull bool   `env:"GOCSRF_AUDIT_BLOCK_IF_FULL"`
}

// LoadEnv reads GOCSRF_* environment variables on top of the defaults and
// validates the result.
func LoadEnv() (Config, error) {
	return loadEnv(env.Options{})
}

func loadEnv(opts env.Options) (Config, error) {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %v", ErrConfiguration, err)
	}

	cfg := Config{
		SaltLength:    raw.SaltLength,
		SecretLength:  raw.SecretLength,
		HashAlgorithm: raw.HashAlgorithm,
		Metrics: MetricsConfig{
			Enabled:                 raw.MetricsEnabled,
			EnableLatencyHistograms: raw.LatencyEnabled,
		},
		Audit: AuditConfig{
			Enabled:    raw.AuditEnabled,
			BufferSize: raw.AuditBufferSize,
			DropIfFull: !raw.AuditBlockIfFull,
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
