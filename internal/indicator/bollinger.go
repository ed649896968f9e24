package indicator

import "trading-signalsv1/internal/model"

const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0
)

// BollingerBands returns middle = SMA(period) and upper/lower = middle ±
// multiplier × population standard deviation of the trailing window.
func BollingerBands(closes []float64, period int, multiplier float64) *model.Bands {
	if period <= 0 || len(closes) < period {
		return nil
	}
	window := closes[len(closes)-period:]
	middle := mean(window)
	band := multiplier * popStdDev(window)
	return &model.Bands{
		Upper:  middle + band,
		Middle: middle,
		Lower:  middle - band,
	}
}
