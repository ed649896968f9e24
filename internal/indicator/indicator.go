// Package indicator provides technical indicator calculations over candle data.
//
// Every function is pure: it reads a close series (or full candles for ATR and
// volume statistics) and returns nil when the input is shorter than the
// minimum window. Insufficient history is a normal state, never an error.
package indicator

import "math"

func ptr(v float64) *float64 { return &v }

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// popStdDev is the population standard deviation (divides by N).
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
