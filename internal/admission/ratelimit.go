package admission

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter caps broker API request volume using a token bucket sized to
// the configured window: maxRequests tokens, refilled at
// maxRequests/window per second.
type Limiter struct {
	limiter     *rate.Limiter
	maxRequests int
	window      time.Duration
}

// NewLimiter creates a broker-API rate limiter.
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	rps := float64(maxRequests) / window.Seconds()
	return &Limiter{
		limiter:     rate.NewLimiter(rate.Limit(rps), maxRequests),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow reports whether a broker request is admitted right now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a request is admitted or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Description returns the configured budget for rejection messages.
func (l *Limiter) Description() string {
	return l.window.String()
}

// MaxRequests returns the per-window request budget.
func (l *Limiter) MaxRequests() int {
	return l.maxRequests
}
