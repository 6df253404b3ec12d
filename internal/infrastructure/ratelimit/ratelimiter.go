package ratelimit

import (
	"context"
	"time"
)

// RateLimitConfig sets independent sliding-window limits. A zero limit
// disables its window.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

func (c RateLimitConfig) Unlimited() bool {
	return c.RequestsPerMinute <= 0 && c.RequestsPerHour <= 0 && c.RequestsPerDay <= 0
}

// Decision is the outcome for one request. Remaining is the smallest
// allowance left across the enforced windows, or -1 when nothing is enforced.
// RetryAfter is set on denials.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (Decision, error)
	Reset(ctx context.Context, key string) error
}
