package targets

import (
	"math"
	"testing"

	"trading-signalsv1/internal/model"
)

func f(v float64) *float64 { return &v }

func assertClose(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

func TestCalculate_BuySwingRiskReward(t *testing.T) {
	l := Calculate(model.ActionBuy, model.SignalSwing, 100, nil)

	assertClose(t, "tp1", l.TakeProfit1, 103)
	assertClose(t, "tp2", l.TakeProfit2, 108)
	assertClose(t, "sl", l.StopLoss, 98.5)
	assertClose(t, "rr", l.RiskReward, 5.33)
	assertClose(t, "entry low", l.Entry.Low, 99.8)
	assertClose(t, "entry high", l.Entry.High, 100.2)
	assertClose(t, "sl pct", l.StopLossPct, 1.5)
	assertClose(t, "tp2 pct", l.TakeProfit2Pct, 8)
}

func TestCalculate_SellMirrors(t *testing.T) {
	l := Calculate(model.ActionSell, model.SignalScalp, 200, nil)

	assertClose(t, "tp1", l.TakeProfit1, 198)
	assertClose(t, "tp2", l.TakeProfit2, 196)
	assertClose(t, "sl", l.StopLoss, 201)
	assertClose(t, "rr", l.RiskReward, 4)
	if l.TakeProfit1Pct != 1 || l.TakeProfit2Pct != 2 {
		t.Errorf("percentages should stay positive: %+v", l)
	}
}

func TestCalculate_HoldHasNoRiskReward(t *testing.T) {
	l := Calculate(model.ActionHold, model.SignalPosition, 100, nil)
	if l.RiskReward != 0 {
		t.Errorf("rr = %v", l.RiskReward)
	}
	assertClose(t, "tp2 sized like buy", l.TakeProfit2, 120)
	assertClose(t, "sl sized like buy", l.StopLoss, 97)
}

func TestCalculate_ATRAdjustments(t *testing.T) {
	tests := []struct {
		name     string
		action   model.Action
		atr      float64
		slPct    float64
		sl       float64
		entryLow float64
	}{
		{"moderate atr widens stop", model.ActionBuy, 2, 2.2, 97.8, 99.4},
		{"large atr capped at 1.9x", model.ActionSell, 10, 2.85, 102.85, 99.2},
		{"tiny atr keeps base stop", model.ActionBuy, 0.1, 1.5, 98.5, 99.85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Calculate(tt.action, model.SignalSwing, 100, f(tt.atr))
			assertClose(t, "sl pct", l.StopLossPct, tt.slPct)
			assertClose(t, "sl", l.StopLoss, tt.sl)
			assertClose(t, "entry low", l.Entry.Low, tt.entryLow)
		})
	}
}

func TestBasePercents_UnknownIsSwing(t *testing.T) {
	if BasePercents("daytrade") != BasePercents(model.SignalSwing) {
		t.Error("unknown signal type should use swing percentages")
	}
}

func TestRiskReward_ZeroRisk(t *testing.T) {
	if RiskReward(100, 110, 100) != 0 {
		t.Error("zero risk should give zero ratio")
	}
}
