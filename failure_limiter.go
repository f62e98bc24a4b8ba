package goCSRF

import (
	"github.com/MrEthical07/goCSRF/internal/rate"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrRateLimited is returned by a FailureLimiter once a client exhausted its failure budget.
	ErrRateLimited = rate.ErrRateLimited
	// ErrLimiterUnavailable is returned when a FailureLimiter backend cannot be reached.
	ErrLimiterUnavailable = rate.ErrRedisUnavailable
)

// FailureLimiter throttles clients that keep presenting tokens which fail
// verification. It is consulted by host adapters such as the middleware
// package; Tokens.Verify itself is never rate limited.
type FailureLimiter = rate.Limiter

// FailureLimiterConfig sets the failure budget: MaxFailures per Window,
// with keys stored under Prefix. Zero values select 10 per 10 minutes.
type FailureLimiterConfig = rate.Config

// NewRedisFailureLimiter returns a fixed-window limiter shared through Redis.
func NewRedisFailureLimiter(client redis.UniversalClient, cfg FailureLimiterConfig) FailureLimiter {
	return rate.NewRedis(client, cfg)
}

// NewLocalFailureLimiter returns an in-process token-bucket limiter.
func NewLocalFailureLimiter(cfg FailureLimiterConfig) FailureLimiter {
	return rate.NewLocal(cfg)
}
