package indicator

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSI returns the relative strength index over the trailing window only:
// gains and losses of the last period deltas are simple-averaged (no Wilder
// smoothing across the full history). A zero average loss yields 100.
func RSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	gains, losses := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return ptr(100.0)
	}
	rs := avgGain / avgLoss
	return ptr(100.0 - (100.0 / (1.0 + rs)))
}
