package model

import (
	"errors"
	"testing"
)

func TestTimeframeIntervals(t *testing.T) {
	tests := map[Timeframe]int64{
		TF15m:           900_000,
		TF1h:            3_600_000,
		TF4h:            14_400_000,
		TF1d:            86_400_000,
		Timeframe("2w"): 14_400_000,
		Timeframe(""):   14_400_000,
	}
	for tf, want := range tests {
		if got := tf.IntervalMs(); got != want {
			t.Errorf("%q: got %d, want %d", tf, got, want)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if tf, err := ParseTimeframe(" 1H "); err != nil || tf != TF1h {
		t.Errorf("ParseTimeframe = %q, %v", tf, err)
	}
	if tf, _ := ParseTimeframe(""); tf != DefaultTimeframe {
		t.Errorf("empty timeframe = %q", tf)
	}
	if _, err := ParseTimeframe("5m"); !errors.Is(err, ErrInvalidTimeframe) {
		t.Errorf("expected ErrInvalidTimeframe, got %v", err)
	}

	if st, err := ParseSignalType("Position"); err != nil || st != SignalPosition {
		t.Errorf("ParseSignalType = %q, %v", st, err)
	}
	if _, err := ParseSignalType("hodl"); !errors.Is(err, ErrInvalidSignalType) {
		t.Errorf("expected ErrInvalidSignalType, got %v", err)
	}

	if rt, _ := ParseRiskTolerance(""); rt != RiskModerate {
		t.Errorf("empty risk = %q", rt)
	}
	if _, err := ParseRiskTolerance("max"); !errors.Is(err, ErrInvalidRiskTolerance) {
		t.Errorf("expected ErrInvalidRiskTolerance, got %v", err)
	}
}

func TestRequestCacheKey(t *testing.T) {
	r := Request{Symbol: "BTC", Timeframe: TF1d, SignalType: SignalScalp, RiskTolerance: RiskConservative}
	if got := r.CacheKey(); got != "signal:BTC:1d:scalp:conservative" {
		t.Errorf("CacheKey = %q", got)
	}
}

func TestMarketContextEmpty(t *testing.T) {
	var mc MarketContext
	if !mc.Empty() {
		t.Error("zero context should be empty")
	}
	rank := 4
	mc.Catalyst.TrendingRank = &rank
	if mc.Empty() {
		t.Error("context with a rank is not empty")
	}
}
