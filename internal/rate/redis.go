package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goCSRF/internal"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter enforces a fixed-window failure budget shared by every
// process that talks to the same Redis.
type RedisLimiter struct {
	redis  redis.UniversalClient
	config Config
}

// NewRedis creates a [RedisLimiter] backed by the given Redis client.
func NewRedis(redisClient redis.UniversalClient, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: cfg.withDefaults(),
	}
}

func (l *RedisLimiter) Check(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, l.failureKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxFailures) {
		return ErrRateLimited
	}

	return nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	count, err := l.incrementWithTTL(ctx, l.failureKey(key), l.config.Window)
	if err != nil {
		return err
	}
	if count >= int64(l.config.MaxFailures) {
		return ErrRateLimited
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.redis.Del(ctx, l.failureKey(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Failures returns the current counter for key. Missing keys return zero.
func (l *RedisLimiter) Failures(ctx context.Context, key string) (int, error) {
	count, err := l.redis.Get(ctx, l.failureKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}

func (l *RedisLimiter) failureKey(key string) string {
	return l.config.Prefix + ":vf:" + internal.HashClientKey(key)
}

func (l *RedisLimiter) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
