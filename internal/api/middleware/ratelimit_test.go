package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type fakeLimiter struct {
	decision ports.RateDecision
	err      error
	keys     []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (ports.RateDecision, error) {
	f.keys = append(f.keys, key)
	return f.decision, f.err
}

func TestRateLimit_Allows(t *testing.T) {
	limiter := &fakeLimiter{decision: ports.RateDecision{Allowed: true, Limit: 100, Remaining: 99, ResetAt: time.Now().Add(time.Minute)}}
	c, rec := newContext("")
	c.Request().RemoteAddr = "10.0.0.1:5555"

	called := false
	err := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "99" {
		t.Fatalf("expected remaining 99, got %q", got)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "10.0.0.1" {
		t.Fatalf("expected key 10.0.0.1, got %v", limiter.keys)
	}
}

func TestRateLimit_Blocks(t *testing.T) {
	limiter := &fakeLimiter{decision: ports.RateDecision{Allowed: false, Limit: 100, Remaining: 0, ResetAt: time.Now().Add(30 * time.Second)}}
	c, rec := newContext("")

	err := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
	if rec.Header().Get(echo.HeaderRetryAfter) == "" {
		t.Fatalf("Retry-After not set")
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	c, _ := newContext("")

	called := false
	err := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil || !called {
		t.Fatalf("expected request to pass, err=%v called=%v", err, called)
	}
}
