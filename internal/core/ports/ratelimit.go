package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of one rate-limit check.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter decides whether one more request from key fits its budget.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
