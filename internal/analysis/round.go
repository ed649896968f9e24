package analysis

import (
	"github.com/shopspring/decimal"

	"trading-signalsv1/internal/model"
)

// Display precision. Computation runs on unrounded values; only the returned
// Signal is rounded.
const (
	pricePlaces      = 2
	oscillatorPlaces = 4 // MACD, ATR
	ratioPlaces      = 4 // momentum, volatility
	volumePlaces     = 2
	scorePlaces      = 2
	confidencePlaces = 1
)

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundPtr(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	r := round(*v, places)
	return &r
}

// roundIndicators returns a display copy of set.
func roundIndicators(set model.IndicatorSet) model.IndicatorSet {
	out := model.IndicatorSet{
		CurrentPrice: round(set.CurrentPrice, pricePlaces),
		RSI:          roundPtr(set.RSI, pricePlaces),
		MACD: model.MACD{
			Line:      roundPtr(set.MACD.Line, oscillatorPlaces),
			Signal:    roundPtr(set.MACD.Signal, oscillatorPlaces),
			Histogram: roundPtr(set.MACD.Histogram, oscillatorPlaces),
		},
		EMA20:        roundPtr(set.EMA20, pricePlaces),
		EMA50:        roundPtr(set.EMA50, pricePlaces),
		SMA200:       roundPtr(set.SMA200, pricePlaces),
		ATR14:        roundPtr(set.ATR14, oscillatorPlaces),
		Momentum3:    roundPtr(set.Momentum3, ratioPlaces),
		Momentum10:   roundPtr(set.Momentum10, ratioPlaces),
		Volatility20: roundPtr(set.Volatility20, ratioPlaces),
		LatestVolume: roundPtr(set.LatestVolume, volumePlaces),
		AvgVolume:    roundPtr(set.AvgVolume, volumePlaces),
		VolumeRatio:  roundPtr(set.VolumeRatio, volumePlaces),
	}
	if bb := set.BollingerBands; bb != nil {
		out.BollingerBands = &model.Bands{
			Upper:  round(bb.Upper, pricePlaces),
			Middle: round(bb.Middle, pricePlaces),
			Lower:  round(bb.Lower, pricePlaces),
		}
	}
	return out
}
