package model

// Candle is one OHLCV interval. TS is the interval open time in Unix milliseconds.
// Sequences are ordered oldest to newest. The high >= max(open, close) >= min(open, close) >= low
// relation is expected but not enforced; upstream feeds occasionally violate it.
type Candle struct {
	TS     int64   `json:"timestamp"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Closes extracts the closing prices of a candle sequence.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}
	return out
}
