package scoring

import (
	"math"

	"trading-signalsv1/internal/model"
)

// TrendBiasThreshold is the |ema20-ema50|/price needed to call a trend.
const TrendBiasThreshold = 0.012

// TrendBias returns (ema20-ema50)/price, or 0 when either EMA is missing.
func TrendBias(set model.IndicatorSet) float64 {
	if set.EMA20 == nil || set.EMA50 == nil || set.CurrentPrice == 0 {
		return 0
	}
	return (*set.EMA20 - *set.EMA50) / set.CurrentPrice
}

// ClassifyRegime labels the market as uptrend, downtrend or range.
func ClassifyRegime(set model.IndicatorSet) model.Regime {
	bias := TrendBias(set)
	if math.Abs(bias) < TrendBiasThreshold {
		return model.RegimeRange
	}
	if bias > 0 {
		return model.RegimeUptrend
	}
	return model.RegimeDowntrend
}
