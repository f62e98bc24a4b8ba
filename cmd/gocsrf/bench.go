package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goCSRF "github.com/MrEthical07/goCSRF"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Measure secret, create and verify throughput",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "ops",
				Usage: "operations per phase",
				Value: 100000,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "number of concurrent workers",
				Value: runtime.GOMAXPROCS(0),
			},
			&cli.BoolFlag{
				Name:  "limiter",
				Usage: "also measure the Redis failure limiter",
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "redis address for --limiter; miniredis is used when empty",
				EnvVars: []string{"REDIS_ADDR"},
			},
		},
		Action: runBench,
	}
}

func runBench(c *cli.Context) error {
	ops, concurrency := c.Int("ops"), c.Int("concurrency")
	if ops <= 0 || concurrency <= 0 {
		return cli.Exit("ops and concurrency must be > 0", 2)
	}

	tokens := tokensFrom(c)
	logger := loggerFrom(c)

	secret, err := tokens.SecretSync()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	valid, err := tokens.Create(secret)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	invalid := invalidate(valid)

	report := benchReport{Concurrency: concurrency}
	report.add("secret", runPhase(ops, concurrency, func(int) error {
		_, err := tokens.SecretSync()
		return err
	}))
	report.add("create", runPhase(ops, concurrency, func(int) error {
		_, err := tokens.Create(secret)
		return err
	}))
	report.add("verify-valid", runPhase(ops, concurrency, func(int) error {
		if !tokens.Verify(secret, valid) {
			return errVerifyMismatch
		}
		return nil
	}))
	report.add("verify-invalid", runPhase(ops, concurrency, func(int) error {
		if tokens.Verify(secret, invalid) {
			return errVerifyMismatch
		}
		return nil
	}))

	if c.Bool("limiter") {
		client, cleanup, err := benchRedis(c.String("redis-addr"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer cleanup()
		logger.Debug("limiter phase", "redis_addr", c.String("redis-addr"))

		ctx := context.Background()
		limiter := goCSRF.NewRedisFailureLimiter(client, goCSRF.FailureLimiterConfig{
			MaxFailures: ops + 1,
			Window:      time.Minute,
			Prefix:      fmt.Sprintf("gocsrf-bench-%d", time.Now().UnixNano()),
		})
		report.add("limiter", runPhase(ops, concurrency, func(i int) error {
			key := fmt.Sprintf("client-%d", i%1024)
			if err := limiter.RecordFailure(ctx, key); err != nil {
				return err
			}
			return limiter.Check(ctx, key)
		}))
	}

	logger.Debug("bench complete", "counters", tokens.MetricsSnapshot().Counters)
	return write(c, report)
}

var errVerifyMismatch = errors.New("unexpected verify result")

// invalidate turns every ASCII letter into '=', keeping length and separator.
func invalidate(token string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return '='
		}
		return r
	}, token)
}

func benchRedis(addr string) (redis.UniversalClient, func(), error) {
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

// runPhase spreads ops calls of op over concurrency workers and records
// per-call latency. Each worker keeps its own samples; they are merged once.
func runPhase(ops, concurrency int, op func(i int) error) phaseStats {
	var (
		wg       sync.WaitGroup
		cursor   atomic.Int64
		failures atomic.Int64
		samples  = make([][]time.Duration, concurrency)
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			local := make([]time.Duration, 0, ops/concurrency+1)
			for {
				i := int(cursor.Add(1)) - 1
				if i >= ops {
					break
				}
				t0 := time.Now()
				if err := op(i); err != nil {
					failures.Add(1)
				}
				local = append(local, time.Since(t0))
			}
			samples[worker] = local
		}(w)
	}
	wg.Wait()
	total := time.Since(start)

	merged := make([]time.Duration, 0, ops)
	for _, s := range samples {
		merged = append(merged, s...)
	}
	return computeStats(total, merged, failures.Load())
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

type phaseReport struct {
	Name      string  `json:"name" yaml:"name"`
	Ops       int     `json:"ops" yaml:"ops"`
	Failures  int64   `json:"failures" yaml:"failures"`
	Total     string  `json:"total" yaml:"total"`
	OpsPerSec float64 `json:"ops_per_sec" yaml:"ops_per_sec"`
	P50       string  `json:"p50" yaml:"p50"`
	P95       string  `json:"p95" yaml:"p95"`
	P99       string  `json:"p99" yaml:"p99"`
}

type benchReport struct {
	Concurrency int           `json:"concurrency" yaml:"concurrency"`
	Phases      []phaseReport `json:"phases" yaml:"phases"`
}

func (r *benchReport) add(name string, s phaseStats) {
	r.Phases = append(r.Phases, phaseReport{
		Name:      name,
		Ops:       s.ops,
		Failures:  s.failures,
		Total:     s.total.Round(time.Millisecond).String(),
		OpsPerSec: s.opsPerS,
		P50:       s.p50.Round(time.Microsecond).String(),
		P95:       s.p95.Round(time.Microsecond).String(),
		P99:       s.p99.Round(time.Microsecond).String(),
	})
}

func (r benchReport) Text() string {
	lines := make([]string, 0, len(r.Phases))
	for _, p := range r.Phases {
		lines = append(lines, fmt.Sprintf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s",
			p.Name, p.Ops, p.Failures, p.Total, p.OpsPerSec, p.P50, p.P95, p.P99))
	}
	return strings.Join(lines, "\n")
}
