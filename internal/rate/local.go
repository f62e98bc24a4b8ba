package rate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const localSweepInterval = 1024

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per client key in process memory.
// It suits single-instance deployments and tests.
type LocalLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*localEntry
	calls   int
}

// NewLocal creates an in-process [LocalLimiter].
func NewLocal(cfg Config) *LocalLimiter {
	return &LocalLimiter{
		config:  cfg.withDefaults(),
		now:     time.Now,
		entries: make(map[string]*localEntry),
	}
}

func (l *LocalLimiter) Check(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return nil
	}
	if e.limiter.TokensAt(l.now()) < 1 {
		return ErrRateLimited
	}
	return nil
}

func (l *LocalLimiter) RecordFailure(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.calls++
	if l.calls%localSweepInterval == 0 {
		l.sweep(now)
	}

	e, ok := l.entries[key]
	if !ok {
		every := rate.Every(l.config.Window / time.Duration(l.config.MaxFailures))
		e = &localEntry{limiter: rate.NewLimiter(every, l.config.MaxFailures)}
		l.entries[key] = e
	}
	e.lastSeen = now

	if !e.limiter.AllowN(now, 1) || e.limiter.TokensAt(now) < 1 {
		return ErrRateLimited
	}
	return nil
}

func (l *LocalLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
	return nil
}

// sweep drops buckets idle for longer than a window; they would be full again anyway.
func (l *LocalLimiter) sweep(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.lastSeen) > l.config.Window {
			delete(l.entries, key)
		}
	}
}
