package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedLimiter(max int, window time.Duration, start time.Time) (*RateLimiter, *time.Time) {
	l := NewRateLimiter(max, window)
	clock := start
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	ctx := context.Background()
	l, _ := newClockedLimiter(3, time.Minute, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.True(t, d.ResetAt.After(l.now()))

	other, err := l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestRateLimiter_Refills(t *testing.T) {
	ctx := context.Background()
	l, clock := newClockedLimiter(2, time.Minute, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		_, _ = l.Allow(ctx, "k")
	}
	d, _ := l.Allow(ctx, "k")
	require.False(t, d.Allowed)
	assert.Equal(t, clock.Add(30*time.Second), d.ResetAt)

	*clock = clock.Add(30 * time.Second)
	d, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRateLimiter_SweepsIdleKeys(t *testing.T) {
	ctx := context.Background()
	l, clock := newClockedLimiter(1, time.Minute, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	_, _ = l.Allow(ctx, "idle")
	*clock = clock.Add(2 * time.Minute)
	_, _ = l.Allow(ctx, "busy")

	assert.NotContains(t, l.buckets, "idle")
	assert.Contains(t, l.buckets, "busy")
}
