package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wingtrade/wingtradebot/internal/instruments"
	"github.com/wingtrade/wingtradebot/internal/levels"
	"github.com/wingtrade/wingtradebot/internal/market"
	"github.com/wingtrade/wingtradebot/internal/metrics"
	"github.com/wingtrade/wingtradebot/internal/quotes"
)

// QuoteProvider supplies fresh quotes; satisfied by quotes.Engine.
type QuoteProvider interface {
	Acquire(ctx context.Context, symbol string, maxAttempts int) (*quotes.Quote, error)
}

// Intent is one incoming order signal to be admitted or rejected.
// Distances are in pip/point units; StopLossPips of zero means no stop.
type Intent struct {
	ID             string      `json:"id"`
	Symbol         string      `json:"symbol"`
	Side           levels.Side `json:"side"`
	EntryPrice     float64     `json:"entry_price"`
	TakeProfitPips float64     `json:"take_profit_pips"`
	StopLossPips   float64     `json:"stop_loss_pips"`
}

// Pipeline stage names, used as the rejecting stage in decisions and
// metric labels.
const (
	StageQuote     = "quote"
	StageSpread    = "spread"
	StageLevels    = "levels"
	StageBreaker   = "circuit_breaker"
	StageRateLimit = "rate_limit"
)

// Decision is the admission verdict for one intent. Every decision is
// computed fresh; nothing is cached between intents.
type Decision struct {
	IntentID        string               `json:"intent_id"`
	Symbol          string               `json:"symbol"`
	Approved        bool                 `json:"approved"`
	Stage           string               `json:"stage,omitempty"` // Rejecting stage when not approved
	RejectionReason string               `json:"rejection_reason,omitempty"`
	Quote           *quotes.Quote        `json:"quote,omitempty"`
	Condition       market.Condition     `json:"condition"`
	Spread          *market.SpreadResult `json:"spread,omitempty"`
	Levels          *levels.Levels       `json:"levels,omitempty"`
	EvaluatedAt     time.Time            `json:"evaluated_at"`
	ElapsedMs       int64                `json:"elapsed_ms"`
}

// Controller runs the pre-trade admission pipeline: fresh quote,
// condition classification, spread gate, level computation/validation,
// then the broker-API circuit breaker and rate limiter.
type Controller struct {
	quotes      QuoteProvider
	gate        *market.SpreadGate
	breaker     *Breaker
	limiter     *Limiter
	maxAttempts int
	clock       func() time.Time
}

// NewController wires the admission pipeline.
func NewController(provider QuoteProvider, gate *market.SpreadGate, breaker *Breaker, limiter *Limiter, maxAttempts int) *Controller {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Controller{
		quotes:      provider,
		gate:        gate,
		breaker:     breaker,
		limiter:     limiter,
		maxAttempts: maxAttempts,
		clock:       time.Now,
	}
}

// SetClock overrides the wall-clock source, used by tests.
func (c *Controller) SetClock(clock func() time.Time) {
	c.clock = clock
}

// Admit evaluates one order intent. Any stage failure short-circuits the
// remaining stages and yields a rejection carrying that stage's error.
func (c *Controller) Admit(ctx context.Context, intent Intent) *Decision {
	start := c.clock()

	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}

	spec := instruments.Resolve(intent.Symbol)
	decision := &Decision{
		IntentID:    intent.ID,
		Symbol:      spec.Symbol,
		EvaluatedAt: start,
	}

	// Stage 1: fresh quote, on demand.
	quote, err := c.quotes.Acquire(ctx, spec.Symbol, c.maxAttempts)
	if err != nil {
		return c.reject(decision, start, StageQuote, err.Error())
	}
	decision.Quote = quote

	// Stage 2: classify the current market condition.
	condition := market.Classify(c.clock())
	decision.Condition = condition

	// Stage 3: spread gate under that condition.
	spread := c.gate.Evaluate(spec.Symbol, quote.Spread(), &condition)
	decision.Spread = &spread
	if !spread.Valid {
		return c.reject(decision, start, StageSpread, spread.Error)
	}

	// Stage 4: compute and validate absolute TP/SL levels.
	priceLevels := levels.Compute(intent.Side, intent.EntryPrice, intent.TakeProfitPips, intent.StopLossPips, spec)
	decision.Levels = &priceLevels

	validation := levels.Validate(intent.Side, intent.EntryPrice, priceLevels.TakeProfit, priceLevels.StopLoss, spec)
	if !validation.Valid {
		return c.reject(decision, start, StageLevels, validation.Error)
	}

	// Stage 5: broker-API circuit breaker.
	if err := c.breaker.Allow(); err != nil {
		return c.reject(decision, start, StageBreaker, err.Error())
	}

	// Stage 6: broker-API rate limiter.
	if !c.limiter.Allow() {
		reason := fmt.Sprintf("rate limit exceeded: max %d requests per %s",
			c.limiter.MaxRequests(), c.limiter.Description())
		return c.reject(decision, start, StageRateLimit, reason)
	}

	decision.Approved = true
	decision.ElapsedMs = c.clock().Sub(start).Milliseconds()
	metrics.AdmissionDecisionsTotal.WithLabelValues("approved", "").Inc()

	log.Info().Str("intent_id", decision.IntentID).Str("symbol", decision.Symbol).
		Str("condition", decision.Condition.String()).
		Float64("tp", priceLevels.TakeProfit).
		Msg("Order intent admitted")

	return decision
}

func (c *Controller) reject(decision *Decision, start time.Time, stage, reason string) *Decision {
	decision.Approved = false
	decision.Stage = stage
	decision.RejectionReason = reason
	decision.ElapsedMs = c.clock().Sub(start).Milliseconds()
	metrics.AdmissionDecisionsTotal.WithLabelValues("rejected", stage).Inc()

	log.Warn().Str("intent_id", decision.IntentID).Str("symbol", decision.Symbol).
		Str("stage", stage).Str("reason", reason).
		Msg("Order intent rejected")

	return decision
}
