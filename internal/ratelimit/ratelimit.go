// Package ratelimit is a fixed-window request limiter backed by Redis.
//
// The limiter fails open: when Redis is unreachable requests are allowed and
// the error is logged.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the counter, starts the window on the first hit and
// returns 1 while the counter is within the limit.
const fixedWindow = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// Limiter decides whether one more request for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RedisLimiter allows limit requests per key per window. A nil *RedisLimiter
// allows everything.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	script *redis.Script
}

// NewRedisLimiter returns a limiter, or nil when client is nil or limit <= 0.
func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	if client == nil || limit <= 0 || window <= 0 {
		return nil
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
		script: redis.NewScript(fixedWindow),
	}
}

// Allow reports whether the request identified by key is within budget.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || key == "" {
		return true
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + l.prefix + ":" + key}, ttl, l.limit).Int64()
	if err != nil {
		slog.WarnContext(ctx, "rate limiter unavailable, allowing request", "prefix", l.prefix, "err", err)
		return true
	}
	return allowed == 1
}
