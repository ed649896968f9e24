package indicator

// Momentum returns (last - base)/base where base is the close period bars
// back. Nil when the series is too short or the base is zero.
func Momentum(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) <= period {
		return nil
	}
	last := closes[len(closes)-1]
	base := closes[len(closes)-1-period]
	if base == 0 {
		return nil
	}
	return ptr((last - base) / base)
}
