package instruments

import "strings"

// Class identifies the pricing family of an instrument, which determines
// pip/point value, rounding precision and minimum TP/SL distances.
type Class int

const (
	Forex Class = iota
	Index
)

func (c Class) String() string {
	switch c {
	case Forex:
		return "forex"
	case Index:
		return "index"
	default:
		return "unknown"
	}
}

// Unit returns the distance unit label used in operator-facing messages.
func (c Class) Unit() string {
	if c == Index {
		return "points"
	}
	return "pips"
}

// Spec describes the static trading parameters of an instrument.
// Specs are constructed from a fixed table and never mutated.
type Spec struct {
	Symbol        string  `json:"symbol"`
	Class         Class   `json:"class"`
	PipValue      float64 `json:"pip_value"`    // Price units per pip/point
	Decimals      int     `json:"decimals"`     // Quote precision
	MinDistance   float64 `json:"min_distance"` // Minimum distance in price units
	MinTPDistance float64 `json:"min_tp_distance"`
	MinSLDistance float64 `json:"min_sl_distance"`
}

// SimpleFX index CFDs quoted to 1 decimal.
var indexSymbols = map[string]bool{
	"US100":   true,
	"US30":    true,
	"NAS100":  true,
	"SPX500":  true,
	"GER40":   true,
	"UK100":   true,
	"JPN225":  true,
	"US500":   true,
	"TECH100": true,
}

var forexSymbols = map[string]bool{
	"EURUSD": true,
	"GBPUSD": true,
	"USDJPY": true,
	"AUDUSD": true,
	"USDCAD": true,
	"NZDUSD": true,
	"EURGBP": true,
	"EURJPY": true,
	"GBPJPY": true,
}

// Normalize strips any "EXCHANGE:" prefix (e.g. "SIMPLEFX:US100") and
// upper-cases the remainder.
func Normalize(symbol string) string {
	s := symbol
	if idx := strings.Index(s, ":"); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

// Resolve returns the spec for a symbol. Unknown symbols resolve to the
// generic non-JPY forex spec rather than failing; order-size and distance
// defaults are safe for that family.
func Resolve(symbol string) Spec {
	clean := Normalize(symbol)

	if indexSymbols[clean] {
		return Spec{
			Symbol:        clean,
			Class:         Index,
			PipValue:      1,
			Decimals:      1,
			MinDistance:   20,
			MinTPDistance: 20,
			MinSLDistance: 20,
		}
	}

	if forexSymbols[clean] && strings.Contains(clean, "JPY") {
		return Spec{
			Symbol:        clean,
			Class:         Forex,
			PipValue:      0.01,
			Decimals:      3,
			MinDistance:   0.1,
			MinTPDistance: 10,
			MinSLDistance: 10,
		}
	}

	// Listed non-JPY pairs and the unknown-symbol default share one spec.
	return Spec{
		Symbol:        clean,
		Class:         Forex,
		PipValue:      0.0001,
		Decimals:      5,
		MinDistance:   0.001,
		MinTPDistance: 10,
		MinSLDistance: 10,
	}
}

// IsKnown reports whether the symbol belongs to one of the fixed sets.
func IsKnown(symbol string) bool {
	clean := Normalize(symbol)
	return indexSymbols[clean] || forexSymbols[clean]
}
