package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// FixedWindowLimiter counts requests per key in fixed Redis-backed windows.
// Key format: ratelimit:<scope>:<client key>. The counter expires with the
// window, so a blocked client is unblocked after at most one full window.
//
// Redis being unreachable must not take logins down with it: errors are
// logged and the request is allowed through.
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	log    zerolog.Logger
}

// NewFixedWindowLimiter creates a limiter allowing limit requests per window
// for each distinct key.
func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration, log zerolog.Logger) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, limit: int64(limit), window: window, log: log}
}

// Allow reports whether the request identified by key fits the current window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("rate limit check failed, allowing request")
		return true, nil
	}
	if n == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("failed to set rate limit window expiry")
		}
	}
	return n <= l.limit, nil
}
