// Package targets sizes the entry band, take-profit levels and stop loss for
// a decided signal.
package targets

import (
	"math"

	"github.com/shopspring/decimal"

	"trading-signalsv1/internal/model"
)

// Percents are the base [tp1, tp2, sl] percentages for a horizon.
type Percents struct {
	TP1, TP2, SL float64
}

var basePercents = map[model.SignalType]Percents{
	model.SignalScalp:    {TP1: 1, TP2: 2, SL: 0.5},
	model.SignalSwing:    {TP1: 3, TP2: 8, SL: 1.5},
	model.SignalPosition: {TP1: 10, TP2: 20, SL: 3},
}

// BasePercents returns the horizon's base percentages; unknown types use swing.
func BasePercents(st model.SignalType) Percents {
	if p, ok := basePercents[st]; ok {
		return p
	}
	return basePercents[model.DefaultSignalType]
}

// Levels are the price targets for one signal. Prices are rounded to cents,
// percentages are positive distances from the current price.
type Levels struct {
	Entry          model.EntryRange
	TakeProfit1    float64
	TakeProfit1Pct float64
	TakeProfit2    float64
	TakeProfit2Pct float64
	StopLoss       float64
	StopLossPct    float64
	RiskReward     float64
}

// Calculate derives the levels for action at price. SELL mirrors the targets
// below price; HOLD is sized like BUY with a zero risk/reward.
func Calculate(action model.Action, st model.SignalType, price float64, atr *float64) Levels {
	base := BasePercents(st)
	dir := 1.0
	if action == model.ActionSell {
		dir = -1
	}

	padding := 0.002
	slPct := base.SL
	if atr != nil && price > 0 {
		padding = clamp(*atr/price*0.3, 0.0015, 0.008)
		atrPct := *atr / price * 100
		slPct = clamp(math.Max(base.SL, atrPct*1.1), base.SL*0.85, base.SL*1.9)
	}

	l := Levels{
		Entry: model.EntryRange{
			Low:  round2(price * (1 - padding)),
			High: round2(price * (1 + padding)),
		},
		TakeProfit1:    round2(price * (1 + dir*base.TP1/100)),
		TakeProfit1Pct: base.TP1,
		TakeProfit2:    round2(price * (1 + dir*base.TP2/100)),
		TakeProfit2Pct: base.TP2,
		StopLoss:       round2(price * (1 - dir*slPct/100)),
		StopLossPct:    round2(slPct),
	}
	if action.Directional() {
		l.RiskReward = RiskReward(price, l.TakeProfit2, l.StopLoss)
	}
	return l
}

// RiskReward returns |tp2-price| / |price-sl| rounded to 2 decimals, or 0
// when the stop sits on the price.
func RiskReward(price, tp2, sl float64) float64 {
	risk := math.Abs(price - sl)
	if risk == 0 {
		return 0
	}
	return round2(math.Abs(tp2-price) / risk)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
