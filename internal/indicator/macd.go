package indicator

import "trading-signalsv1/internal/model"

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// MACD computes line, signal, and histogram at the last close.
//
// The line needs 26 closes. The signal line is the 9-period EMA of a MACD
// history re-derived at every close from index 26 onward, so it needs 9
// history points (35 closes). Each field is nil independently.
func MACD(closes []float64) model.MACD {
	var out model.MACD
	if len(closes) < macdSlow {
		return out
	}

	fast := emaSeries(closes, macdFast)
	slow := emaSeries(closes, macdSlow)
	last := len(closes) - 1
	line := fast[last] - slow[last]
	out.Line = ptr(line)

	history := make([]float64, 0, len(closes)-macdSlow)
	for i := macdSlow; i < len(closes); i++ {
		history = append(history, fast[i]-slow[i])
	}

	signal := EMA(history, macdSignal)
	if signal == nil {
		return out
	}
	out.Signal = signal
	out.Histogram = ptr(line - *signal)
	return out
}
