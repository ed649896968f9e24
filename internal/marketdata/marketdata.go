// Package marketdata acquires candle history for the analysis pipeline.
//
// Providers are tried in order (exchange klines, then an aggregator price
// series) and a deterministic synthetic generator backs the chain, so Fetch
// always yields candles together with a flag describing how degraded they are.
package marketdata

import (
	"errors"

	"trading-signalsv1/internal/model"
)

var (
	// ErrProviderUnavailable covers non-2xx responses, transport errors and timeouts.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrUnknownSymbol is returned when a provider does not list the symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrEmptySeries is returned when a provider answers with no usable rows.
	ErrEmptySeries = errors.New("empty candle series")
)

// Result is the outcome of one chain fetch.
type Result struct {
	Candles  []model.Candle
	Source   model.DataSource
	Degraded bool
	Warnings []string
}

// trimNewest keeps the newest limit candles.
func trimNewest(candles []model.Candle, limit int) []model.Candle {
	if limit > 0 && len(candles) > limit {
		return candles[len(candles)-limit:]
	}
	return candles
}

// gapCount counts neighbouring candles spaced wider than intervalMs.
func gapCount(candles []model.Candle, intervalMs int64) int {
	gaps := 0
	for i := 1; i < len(candles); i++ {
		if candles[i].TS-candles[i-1].TS > intervalMs {
			gaps++
		}
	}
	return gaps
}
