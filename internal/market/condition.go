package market

import "time"

// Condition is the coarse, time-derived market state used to select
// spread tolerance.
type Condition int

const (
	Normal Condition = iota
	News
	Overnight
	LowVolatility
)

func (c Condition) String() string {
	switch c {
	case Normal:
		return "normal"
	case News:
		return "news"
	case Overnight:
		return "overnight"
	case LowVolatility:
		return "lowVolatility"
	default:
		return "unknown"
	}
}

// ParseCondition maps a condition name back to its value. Unknown names
// fall through to Normal.
func ParseCondition(s string) Condition {
	switch s {
	case "news":
		return News
	case "overnight":
		return Overnight
	case "lowVolatility", "low_volatility":
		return LowVolatility
	default:
		return Normal
	}
}

// etOffsetHours approximates Eastern Time as a fixed UTC-5 offset.
// Daylight saving is deliberately not applied; classifications shift by
// one hour during EDT.
const etOffsetHours = 5

// Classify derives the market condition from wall-clock time alone.
//
// Rules in priority order: minute-level news windows around the major
// US economic releases (ET 8:15-8:45 and 9:45-10:15), then overnight
// low liquidity (ET 22:00-06:59), then the lunchtime lull (ET 12:00-14:59),
// otherwise normal.
func Classify(now time.Time) Condition {
	utc := now.UTC()
	etHour := (utc.Hour() - etOffsetHours + 24) % 24
	minute := utc.Minute()

	if (etHour == 8 && minute >= 15 && minute <= 45) ||
		(etHour == 9 && minute >= 45) ||
		(etHour == 10 && minute <= 15) {
		return News
	}

	if etHour >= 22 || etHour <= 6 {
		return Overnight
	}

	if etHour >= 12 && etHour <= 14 {
		return LowVolatility
	}

	return Normal
}
