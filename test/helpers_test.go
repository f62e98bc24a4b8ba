//go:build integration
// +build integration

package test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// redisMode names one Redis deployment the limiter suite runs against.
type redisMode struct {
	name  string
	setup func(t *testing.T) (redis.UniversalClient, func())
}

// redisModes always includes miniredis. REDIS_ADDR adds a standalone server,
// REDIS_CLUSTER_ADDRS a cluster, and REDIS_SENTINEL_ADDRS a sentinel setup.
func redisModes(t *testing.T) []redisMode {
	t.Helper()
	modes := []redisMode{{
		name: "miniredis",
		setup: func(t *testing.T) (redis.UniversalClient, func()) {
			t.Helper()
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("miniredis: %v", err)
			}
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			return rdb, func() { _ = rdb.Close(); mr.Close() }
		},
	}}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, redisMode{
			name: "standalone:" + addr,
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				return pingOrSkip(t, redis.NewClient(&redis.Options{Addr: addr}))
			},
		})
	}

	if addrs := os.Getenv("REDIS_CLUSTER_ADDRS"); addrs != "" {
		modes = append(modes, redisMode{
			name: "cluster",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				return pingOrSkip(t, redis.NewClusterClient(&redis.ClusterOptions{Addrs: splitAddrs(addrs)}))
			},
		})
	}

	if addrs := os.Getenv("REDIS_SENTINEL_ADDRS"); addrs != "" {
		master := os.Getenv("REDIS_SENTINEL_MASTER")
		if master == "" {
			master = "mymaster"
		}
		modes = append(modes, redisMode{
			name: "sentinel",
			setup: func(t *testing.T) (redis.UniversalClient, func()) {
				return pingOrSkip(t, redis.NewFailoverClient(&redis.FailoverOptions{
					MasterName:    master,
					SentinelAddrs: splitAddrs(addrs),
				}))
			},
		})
	}

	return modes
}

func pingOrSkip(t *testing.T, rdb redis.UniversalClient) (redis.UniversalClient, func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("cannot connect to Redis: %v", err)
	}
	return rdb, func() { _ = rdb.Close() }
}

func splitAddrs(s string) []string {
	var addrs []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

// uniquePrefix keeps runs against a shared server from seeing each other's keys.
func uniquePrefix(t *testing.T) string {
	t.Helper()
	return "gocsrf-it-" + strings.ReplaceAll(t.Name(), "/", "_") + "-" + time.Now().Format("150405.000000000")
}
