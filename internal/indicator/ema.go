package indicator

// EMA returns the exponential moving average at the last close.
// The average is seeded with the SMA of the first period values and then
// recurses forward with multiplier k = 2/(period+1).
func EMA(closes []float64, period int) *float64 {
	series := emaSeries(closes, period)
	if series == nil {
		return nil
	}
	return ptr(series[len(series)-1])
}

// emaSeries returns EMA values aligned to closes: index i holds the EMA
// through closes[i]. Entries before period-1 are zero and must not be read.
func emaSeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(closes))

	current := mean(closes[:period])
	out[period-1] = current
	for i := period; i < len(closes); i++ {
		// EMA = (Price * k) + (EMA_prev * (1 - k))
		current = closes[i]*k + current*(1-k)
		out[i] = current
	}
	return out
}
