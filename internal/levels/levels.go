package levels

import (
	"fmt"
	"math"

	"github.com/wingtrade/wingtradebot/internal/instruments"
)

// Side is the direction of an order intent.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide accepts the signal formats seen from upstream ("BUY", "B",
// "sell", ...) and normalizes them.
func ParseSide(s string) (Side, error) {
	switch s {
	case "buy", "BUY", "B", "b":
		return Buy, nil
	case "sell", "SELL", "S", "s":
		return Sell, nil
	default:
		return "", fmt.Errorf("invalid side: %s", s)
	}
}

// Levels holds absolute TP/SL prices derived from an entry price and
// pip/point distances. StopLoss is nil when no SL distance was supplied.
type Levels struct {
	TakeProfit float64  `json:"take_profit"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
}

// ValidationResult reports whether computed levels are safe to send.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Compute converts entry price plus pip/point distances into absolute
// TP/SL prices. A zero slDistance means no stop loss. Index prices round
// to 1 decimal, forex prices to the spec's quote precision.
func Compute(side Side, entryPrice, tpDistance, slDistance float64, spec instruments.Spec) Levels {
	var tp float64
	var sl *float64

	if side == Buy {
		tp = entryPrice + tpDistance*spec.PipValue
		if slDistance != 0 {
			v := entryPrice - slDistance*spec.PipValue
			sl = &v
		}
	} else {
		tp = entryPrice - tpDistance*spec.PipValue
		if slDistance != 0 {
			v := entryPrice + slDistance*spec.PipValue
			sl = &v
		}
	}

	if spec.Class == instruments.Index {
		tp = math.Round(tp*10) / 10
		if sl != nil {
			v := math.Round(*sl*10) / 10
			sl = &v
		}
	} else {
		tp = roundTo(tp, spec.Decimals)
		if sl != nil {
			v := roundTo(*sl, spec.Decimals)
			sl = &v
		}
	}

	return Levels{TakeProfit: tp, StopLoss: sl}
}

func roundTo(x float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(x*p) / p
}

// Validate enforces minimum distance and directional sanity on computed
// levels. Distance checks run first; the first failing check wins.
func Validate(side Side, entryPrice, tpPrice float64, slPrice *float64, spec instruments.Spec) ValidationResult {
	unit := spec.Class.Unit()

	tpDistance := math.Abs(tpPrice-entryPrice) / spec.PipValue
	var slDistance *float64
	if slPrice != nil {
		v := math.Abs(*slPrice-entryPrice) / spec.PipValue
		slDistance = &v
	}

	// Class minimums: 20 points for indices, 10 pips for forex.
	minRequired := 10.0
	if spec.Class == instruments.Index {
		minRequired = 20.0
	}

	if tpDistance < minRequired {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("TP distance (%.1f %s) is below minimum %.0f", tpDistance, unit, minRequired),
		}
	}

	if slDistance != nil && *slDistance < minRequired {
		return ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("SL distance (%.1f %s) is below minimum %.0f", *slDistance, unit, minRequired),
		}
	}

	if side == Buy {
		if tpPrice <= entryPrice {
			return ValidationResult{Valid: false, Error: "buy TP must be above entry price"}
		}
		if slPrice != nil && *slPrice >= entryPrice {
			return ValidationResult{Valid: false, Error: "buy SL must be below entry price"}
		}
	} else {
		if tpPrice >= entryPrice {
			return ValidationResult{Valid: false, Error: "sell TP must be below entry price"}
		}
		if slPrice != nil && *slPrice <= entryPrice {
			return ValidationResult{Valid: false, Error: "sell SL must be above entry price"}
		}
	}

	return ValidationResult{Valid: true}
}
