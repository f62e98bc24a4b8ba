package rate

import "errors"

var (
	// ErrRateLimited is returned once a client key exhausted its failure budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps failures talking to the Redis backend.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
