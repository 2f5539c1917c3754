package instruments

import "testing"

func TestResolveStripsExchangePrefix(t *testing.T) {
	prefixed := Resolve("SIMPLEFX:us100")
	plain := Resolve("US100")

	if prefixed != plain {
		t.Errorf("Expected identical specs, got %+v vs %+v", prefixed, plain)
	}
	if prefixed.Class != Index {
		t.Errorf("Expected index class for US100, got %s", prefixed.Class)
	}
}

func TestResolveIndexSpec(t *testing.T) {
	spec := Resolve("GER40")

	if spec.Class != Index {
		t.Fatalf("Expected index class, got %s", spec.Class)
	}
	if spec.PipValue != 1 {
		t.Errorf("Expected point value 1, got %v", spec.PipValue)
	}
	if spec.Decimals != 1 {
		t.Errorf("Expected 1 decimal, got %d", spec.Decimals)
	}
	if spec.MinTPDistance != 20 || spec.MinSLDistance != 20 {
		t.Errorf("Expected 20 point minimums, got TP=%v SL=%v", spec.MinTPDistance, spec.MinSLDistance)
	}
}

func TestResolveForexSpecs(t *testing.T) {
	testCases := []struct {
		symbol       string
		pipValue     float64
		decimals     int
		minDistance  float64
		description  string
	}{
		{"USDJPY", 0.01, 3, 0.1, "JPY pair uses 2-decimal pips"},
		{"EURJPY", 0.01, 3, 0.1, "cross JPY pair uses 2-decimal pips"},
		{"EURUSD", 0.0001, 5, 0.001, "major pair uses 4-decimal pips"},
		{"gbpusd", 0.0001, 5, 0.001, "lookup is case-insensitive"},
	}

	for _, tc := range testCases {
		spec := Resolve(tc.symbol)
		if spec.Class != Forex {
			t.Errorf("%s: expected forex class, got %s", tc.description, spec.Class)
		}
		if spec.PipValue != tc.pipValue {
			t.Errorf("%s: expected pip value %v, got %v", tc.description, tc.pipValue, spec.PipValue)
		}
		if spec.Decimals != tc.decimals {
			t.Errorf("%s: expected %d decimals, got %d", tc.description, tc.decimals, spec.Decimals)
		}
		if spec.MinDistance != tc.minDistance {
			t.Errorf("%s: expected min distance %v, got %v", tc.description, tc.minDistance, spec.MinDistance)
		}
		if spec.MinTPDistance != 10 || spec.MinSLDistance != 10 {
			t.Errorf("%s: expected 10 pip minimums, got TP=%v SL=%v", tc.description, spec.MinTPDistance, spec.MinSLDistance)
		}
	}
}

func TestResolveUnknownSymbolDefaultsToForex(t *testing.T) {
	spec := Resolve("XAUUSD")

	if spec.Class != Forex {
		t.Errorf("Expected forex default for unknown symbol, got %s", spec.Class)
	}
	if spec.PipValue != 0.0001 || spec.Decimals != 5 {
		t.Errorf("Expected generic forex spec, got pip=%v decimals=%d", spec.PipValue, spec.Decimals)
	}
	if IsKnown("XAUUSD") {
		t.Error("Expected XAUUSD to be reported unknown")
	}
}

func TestClassUnit(t *testing.T) {
	if Index.Unit() != "points" {
		t.Errorf("Expected points, got %s", Index.Unit())
	}
	if Forex.Unit() != "pips" {
		t.Errorf("Expected pips, got %s", Forex.Unit())
	}
}
