package indicator

import "trading-signalsv1/internal/model"

// Compute builds the IndicatorSet for the latest candle of the sequence.
func Compute(candles []model.Candle) model.IndicatorSet {
	var set model.IndicatorSet
	if len(candles) == 0 {
		return set
	}

	closes := model.Closes(candles)
	vol := Volume(candles, DefaultVolumePeriod)

	set.CurrentPrice = closes[len(closes)-1]
	set.RSI = RSI(closes, DefaultRSIPeriod)
	set.MACD = MACD(closes)
	set.BollingerBands = BollingerBands(closes, DefaultBollingerPeriod, DefaultBollingerStdDev)
	set.EMA20 = EMA(closes, 20)
	set.EMA50 = EMA(closes, 50)
	set.SMA200 = SMA(closes, 200)
	set.ATR14 = ATR(candles, DefaultATRPeriod)
	set.Momentum3 = Momentum(closes, 3)
	set.Momentum10 = Momentum(closes, 10)
	set.Volatility20 = ReturnVolatility(closes, DefaultVolatilityPeriod)
	set.LatestVolume = vol.Latest
	set.AvgVolume = vol.Avg
	set.VolumeRatio = vol.Ratio
	return set
}

// PreviousMACD recomputes MACD over the sequence without its last candle,
// for crossover detection.
func PreviousMACD(candles []model.Candle) model.MACD {
	if len(candles) < 2 {
		return model.MACD{}
	}
	return MACD(model.Closes(candles[:len(candles)-1]))
}
