package market

import (
	"fmt"
	"time"

	"github.com/wingtrade/wingtradebot/internal/instruments"
)

// ConditionLimits holds maximum allowed spreads in pip/point units,
// one threshold per market condition.
type ConditionLimits struct {
	Normal        float64 `yaml:"normal" json:"normal"`
	News          float64 `yaml:"news" json:"news"`
	Overnight     float64 `yaml:"overnight" json:"overnight"`
	LowVolatility float64 `yaml:"low_volatility" json:"low_volatility"`
}

// For returns the limit applicable under the given condition.
func (cl ConditionLimits) For(c Condition) float64 {
	switch c {
	case News:
		return cl.News
	case Overnight:
		return cl.Overnight
	case LowVolatility:
		return cl.LowVolatility
	default:
		return cl.Normal
	}
}

// LimitTable maps instrument class x market condition to a maximum
// allowed spread. Loaded once at startup, read-only afterwards.
type LimitTable struct {
	Indices ConditionLimits `yaml:"indices" json:"indices"`
	Forex   ConditionLimits `yaml:"forex" json:"forex"`
}

// DefaultLimitTable returns production spread caps in pips/points.
func DefaultLimitTable() LimitTable {
	return LimitTable{
		Indices: ConditionLimits{
			Normal:        30,
			News:          50,
			Overnight:     40,
			LowVolatility: 25,
		},
		Forex: ConditionLimits{
			Normal:        10,
			News:          15,
			Overnight:     12,
			LowVolatility: 8,
		},
	}
}

// MaxAllowed looks up the cap for an instrument class under a condition.
func (t LimitTable) MaxAllowed(class instruments.Class, c Condition) float64 {
	if class == instruments.Index {
		return t.Indices.For(c)
	}
	return t.Forex.For(c)
}

// SpreadResult contains the outcome of a spread gate evaluation.
type SpreadResult struct {
	Valid       bool      `json:"valid"`
	Error       string    `json:"error,omitempty"`
	Symbol      string    `json:"symbol"`
	SpreadUnits float64   `json:"spread_units"` // Measured spread in pips/points
	MaxAllowed  float64   `json:"max_allowed"`
	Condition   Condition `json:"condition"`
	Unit        string    `json:"unit"`
}

// SpreadGate rejects orders whose live spread exceeds the
// condition-aware cap for the instrument's class.
type SpreadGate struct {
	limits LimitTable
	clock  func() time.Time
}

// NewSpreadGate creates a gate over the supplied limit table.
func NewSpreadGate(limits LimitTable) *SpreadGate {
	return &SpreadGate{limits: limits, clock: time.Now}
}

// SetClock overrides the wall-clock source, used by tests.
func (g *SpreadGate) SetClock(clock func() time.Time) {
	g.clock = clock
}

// Limits returns the configured limit table.
func (g *SpreadGate) Limits() LimitTable {
	return g.limits
}

// Evaluate checks a live spread (in absolute price units) against the
// cap for the symbol's class under the given condition. A nil condition
// classifies from the current wall clock.
func (g *SpreadGate) Evaluate(symbol string, liveSpread float64, condition *Condition) SpreadResult {
	spec := instruments.Resolve(symbol)

	cond := Classify(g.clock())
	if condition != nil {
		cond = *condition
	}

	spreadUnits := liveSpread / spec.PipValue
	maxAllowed := g.limits.MaxAllowed(spec.Class, cond)
	unit := spec.Class.Unit()

	result := SpreadResult{
		Valid:       spreadUnits <= maxAllowed,
		Symbol:      spec.Symbol,
		SpreadUnits: spreadUnits,
		MaxAllowed:  maxAllowed,
		Condition:   cond,
		Unit:        unit,
	}

	if !result.Valid {
		result.Error = fmt.Sprintf("spread too high for %s: %.1f %s (max: %.1f %s during %s conditions)",
			spec.Symbol, spreadUnits, unit, maxAllowed, unit, cond)
	}

	return result
}
