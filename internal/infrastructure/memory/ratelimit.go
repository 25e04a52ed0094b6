// Package memory holds process-local stand-ins for shared infrastructure.
package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hbiu/lms-backend/internal/core/ports"
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter is a per-key token bucket refilling max tokens per window.
// Counts are local to the process, so each replica limits on its own.
type RateLimiter struct {
	max      int
	window   time.Duration
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewRateLimiter allows a burst of max requests per key, refilled evenly over window.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max < 1 {
		max = 1
	}
	return &RateLimiter{
		max:      max,
		window:   window,
		interval: window / time.Duration(max),
		now:      time.Now,
		buckets:  make(map[string]*bucket),
	}
}

func (l *RateLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Every(l.interval), l.max)}
		l.buckets[key] = b
	}
	b.seen = now

	allowed := b.lim.AllowN(now, 1)
	tokens := b.lim.TokensAt(now)

	d := ports.RateDecision{
		Allowed:   allowed,
		Limit:     l.max,
		Remaining: int(math.Max(0, math.Floor(tokens))),
	}
	if allowed {
		d.ResetAt = now.Add(time.Duration((float64(l.max) - tokens) * float64(l.interval)))
	} else {
		d.ResetAt = now.Add(time.Duration((1 - tokens) * float64(l.interval)))
	}
	return d, nil
}

// sweep drops buckets idle for a whole window; they would be full again anyway.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.seen) >= l.window {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}
