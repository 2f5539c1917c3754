package market

import (
	"strings"
	"testing"
	"time"
)

func TestSpreadGateRejectsWideForexSpread(t *testing.T) {
	gate := NewSpreadGate(DefaultLimitTable())

	cond := Normal
	result := gate.Evaluate("EURUSD", 0.0015, &cond) // 15 pips vs 10 pip cap

	if result.Valid {
		t.Fatal("Expected 15 pip spread to fail the 10 pip normal cap")
	}
	if result.SpreadUnits != 15.0 {
		t.Errorf("Expected 15 pips, got %.1f", result.SpreadUnits)
	}
	if result.MaxAllowed != 10.0 {
		t.Errorf("Expected 10 pip cap, got %.1f", result.MaxAllowed)
	}
	if !strings.Contains(result.Error, "EURUSD") || !strings.Contains(result.Error, "pips") {
		t.Errorf("Expected error to name symbol and unit, got %q", result.Error)
	}
	if !strings.Contains(result.Error, "normal") {
		t.Errorf("Expected error to name the condition, got %q", result.Error)
	}
}

func TestSpreadGateAcceptsTightSpread(t *testing.T) {
	gate := NewSpreadGate(DefaultLimitTable())

	cond := Normal
	result := gate.Evaluate("EURUSD", 0.0008, &cond) // 8 pips

	if !result.Valid {
		t.Errorf("Expected 8 pip spread to pass, got error %q", result.Error)
	}
	if result.Error != "" {
		t.Errorf("Expected empty error on pass, got %q", result.Error)
	}
}

func TestSpreadGateIndexUsesPoints(t *testing.T) {
	gate := NewSpreadGate(DefaultLimitTable())

	cond := News
	result := gate.Evaluate("SIMPLEFX:US100", 55.0, &cond) // 55 points vs 50 point news cap

	if result.Valid {
		t.Fatal("Expected 55 point spread to fail the 50 point news cap")
	}
	if result.Unit != "points" {
		t.Errorf("Expected points unit, got %s", result.Unit)
	}
	if result.Symbol != "US100" {
		t.Errorf("Expected normalized symbol US100, got %s", result.Symbol)
	}
}

func TestSpreadGatePerConditionCaps(t *testing.T) {
	gate := NewSpreadGate(DefaultLimitTable())

	testCases := []struct {
		condition Condition
		spread    float64 // absolute price units, EURUSD
		valid     bool
	}{
		{Normal, 0.0010, true},       // 10 pips == cap
		{News, 0.0015, true},         // 15 pips == relaxed news cap
		{Overnight, 0.0013, false},   // 13 pips > 12
		{LowVolatility, 0.0009, false}, // 9 pips > 8
	}

	for _, tc := range testCases {
		cond := tc.condition
		result := gate.Evaluate("EURUSD", tc.spread, &cond)
		if result.Valid != tc.valid {
			t.Errorf("condition %s spread %.4f: valid=%v, want %v",
				tc.condition, tc.spread, result.Valid, tc.valid)
		}
	}
}

func TestSpreadGateClassifiesWhenConditionOmitted(t *testing.T) {
	gate := NewSpreadGate(DefaultLimitTable())
	gate.SetClock(func() time.Time {
		return time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC) // ET 23:00
	})

	result := gate.Evaluate("EURUSD", 0.0011, nil) // 11 pips vs 12 overnight cap

	if result.Condition != Overnight {
		t.Fatalf("Expected overnight classification, got %s", result.Condition)
	}
	if !result.Valid {
		t.Errorf("Expected 11 pips to pass the overnight cap, got %q", result.Error)
	}
}
