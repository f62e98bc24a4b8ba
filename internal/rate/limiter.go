package rate

import (
	"context"
	"errors"
	"time"
)

const (
	defaultMaxFailures = 10
	defaultWindow      = 10 * time.Minute
	defaultPrefix      = "gocsrf"
)

// Config holds limiter tuning parameters. Zero values fall back to 10
// failures per 10 minutes under the "gocsrf" key prefix.
type Config struct {
	MaxFailures int
	Window      time.Duration
	Prefix      string
}

func (c Config) withDefaults() Config {
	if c.MaxFailures <= 0 {
		c.MaxFailures = defaultMaxFailures
	}
	if c.Window <= 0 {
		c.Window = defaultWindow
	}
	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}
	return c
}

// Limiter tracks verification failures per client key.
type Limiter interface {
	// Check returns ErrRateLimited when key has no failure budget left.
	Check(ctx context.Context, key string) error
	// RecordFailure charges one failure to key. It returns ErrRateLimited
	// when this failure exhausted the budget.
	RecordFailure(ctx context.Context, key string) error
	// Reset clears the failure history of key.
	Reset(ctx context.Context, key string) error
}

// IsUnavailable reports whether err means the limiter backend could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrRedisUnavailable)
}
