package indicator

import (
	"math"

	"trading-signalsv1/internal/model"
)

// DefaultATRPeriod is the conventional ATR lookback.
const DefaultATRPeriod = 14

// ATR returns the mean of the last period true ranges, where
// TR = max(high-low, |high-prevClose|, |low-prevClose|).
func ATR(candles []model.Candle, period int) *float64 {
	if period <= 0 || len(candles) < period+1 {
		return nil
	}
	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += trueRange(candles[i], candles[i-1].Close)
	}
	return ptr(sum / float64(period))
}

func trueRange(c model.Candle, prevClose float64) float64 {
	return math.Max(c.High-c.Low, math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
}
