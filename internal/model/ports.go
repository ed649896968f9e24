package model

import (
	"context"
	"time"
)

// ── Ports ──
// These interfaces decouple the analysis pipeline from concrete providers,
// caches, and context fetchers.

// CandleSource fetches an ordered candle history for symbol/timeframe.
type CandleSource interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// FetchOHLCV returns up to limit candles, oldest first.
	FetchOHLCV(ctx context.Context, symbol string, tf Timeframe, limit int) ([]Candle, error)
}

// SignalCache stores finished signals keyed by Request.CacheKey.
// It is an optimisation only; a miss or error always falls back to recomputation.
type SignalCache interface {
	Get(ctx context.Context, key string) (*Signal, bool)
	Set(ctx context.Context, key string, sig Signal, ttl time.Duration) error
}

// ContextSource gathers the optional futures/catalyst context for a symbol.
// Missing pieces are reported as warnings, never as a failed analysis.
type ContextSource interface {
	Gather(ctx context.Context, symbol string) (MarketContext, []string)
}
