package indicator

// SMA returns the arithmetic mean of the last period closes.
func SMA(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	return ptr(mean(closes[len(closes)-period:]))
}
