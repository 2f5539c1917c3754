package admission

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// BreakerConfig mirrors the broker-API circuit breaker contract:
// trip after N consecutive failures, stay open for the reset timeout,
// then probe in half-open state.
type BreakerConfig struct {
	FailureThreshold uint32
	ResetTimeout     time.Duration
	HalfOpenTimeout  time.Duration
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		ResetTimeout:     60 * time.Second,
		HalfOpenTimeout:  30 * time.Second,
	}
}

// Breaker guards outbound broker calls. Admission consults Allow before
// accepting an intent; the eventual broker call runs through Execute so
// failures feed the trip condition.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a circuit breaker for the broker API. gobreaker has
// no separate half-open timer, so the half-open timeout maps onto the
// closed-state count reset interval with single-request probing.
func NewBreaker(cfg BreakerConfig) *Breaker {
	settings := gobreaker.Settings{
		Name:        "broker-api",
		MaxRequests: 1,
		Interval:    cfg.HalfOpenTimeout,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state change")
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Allow reports whether the broker API may be called right now.
func (b *Breaker) Allow() error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("circuit breaker open: broker API calls suspended")
	}
	return nil
}

// Execute runs a broker call through the breaker so its outcome counts
// toward the trip condition.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(fn)
}

// State returns the breaker state name for diagnostics.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
