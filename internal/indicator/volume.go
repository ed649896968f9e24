package indicator

import "trading-signalsv1/internal/model"

const (
	DefaultVolumePeriod     = 20
	DefaultVolatilityPeriod = 20
)

// VolumeStats holds the latest volume, the trailing mean, and their ratio.
type VolumeStats struct {
	Latest *float64
	Avg    *float64
	Ratio  *float64
}

// Volume computes volume statistics over the trailing period candles
// (the latest candle included). Ratio is nil when the mean is zero.
func Volume(candles []model.Candle, period int) VolumeStats {
	var out VolumeStats
	if len(candles) == 0 {
		return out
	}
	latest := candles[len(candles)-1].Volume
	out.Latest = ptr(latest)
	if period <= 0 || len(candles) < period {
		return out
	}

	sum := 0.0
	for _, c := range candles[len(candles)-period:] {
		sum += c.Volume
	}
	avg := sum / float64(period)
	out.Avg = ptr(avg)
	if avg == 0 {
		return out
	}
	out.Ratio = ptr(latest / avg)
	return out
}

// ReturnVolatility returns the population standard deviation of the trailing
// period simple returns. Returns against a zero close count as 0.
func ReturnVolatility(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}
	returns := make([]float64, 0, period)
	for i := len(closes) - period; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (closes[i]-prev)/prev)
	}
	return ptr(popStdDev(returns))
}
