package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hbiu/lms-backend/internal/core/ports"
)

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: ratelimit:<client_key>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows max requests per client key in each window.
func NewRateLimiter(client *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, max: max, window: window, now: time.Now}
}

// Allow counts one request for key and reports whether it fits the window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	now := l.now()
	start := now.Truncate(l.window)
	resetAt := start.Add(l.window)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, l.key(key, start))
		pipe.Expire(ctx, l.key(key, start), resetAt.Sub(now))
		return nil
	})
	if err != nil {
		return ports.RateDecision{}, fmt.Errorf("rate limit: %w", err)
	}

	count := int(incr.Val())
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateDecision{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (l *RateLimiter) key(client string, start time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", client, start.Unix())
}

// Pinger adapts a client to the readiness check signature.
func Pinger(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
