package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trading-signalsv1/internal/breaker"
	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/metrics"
	"trading-signalsv1/internal/model"
)

// DefaultProviderTimeout bounds each provider call.
const DefaultProviderTimeout = 10 * time.Second

// Link is one network provider in the chain.
type Link struct {
	Source   model.DataSource
	Provider model.CandleSource
	Breaker  *breaker.Breaker // optional
}

// Chain tries each link in order and falls back to synthetic candles.
type Chain struct {
	links    []Link
	fallback *SyntheticGenerator
	timeout  time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewChain builds a chain. A non-positive timeout uses DefaultProviderTimeout.
// m may be nil.
func NewChain(links []Link, fallback *SyntheticGenerator, timeout time.Duration, m *metrics.Metrics) *Chain {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Chain{
		links:    links,
		fallback: fallback,
		timeout:  timeout,
		metrics:  m,
		log:      logger.Component("marketdata"),
	}
}

// Fetch returns candles for symbol/timeframe. It never fails: when every
// provider is unavailable the result is synthetic and flagged degraded.
func (c *Chain) Fetch(ctx context.Context, symbol string, tf model.Timeframe, limit int) Result {
	var warnings []string

	for i, link := range c.links {
		candles, err := c.try(ctx, link, symbol, tf, limit)
		if err == nil {
			c.metrics.ObserveSource(string(link.Source), i > 0)
			// a quarter or more missing steps means the provider's native
			// resolution is coarser than tf
			if gaps := gapCount(candles, tf.IntervalMs()); gaps > 0 && gaps*4 >= len(candles)-1 {
				warnings = append(warnings, fmt.Sprintf("%s candles are sparser than %s (%d gaps in %d candles)", link.Source, tf, gaps, len(candles)))
			}
			return Result{
				Candles:  candles,
				Source:   link.Source,
				Degraded: i > 0,
				Warnings: warnings,
			}
		}

		c.log.Warn("candle provider failed",
			"provider", link.Provider.Name(),
			"symbol", symbol,
			"timeframe", tf,
			"error", err,
			"trace_id", logger.TraceID(ctx),
		)
		warnings = append(warnings, fmt.Sprintf("%s data unavailable (%s): %v", link.Source, link.Provider.Name(), err))
	}

	c.log.Warn("all candle providers failed, using synthetic candles",
		"symbol", symbol,
		"timeframe", tf,
		"trace_id", logger.TraceID(ctx),
	)
	warnings = append(warnings, "using deterministic synthetic candles; signal is illustrative only")
	c.metrics.ObserveSource(string(model.SourceSynthetic), true)

	return Result{
		Candles:  c.fallback.Generate(symbol, tf, limit),
		Source:   model.SourceSynthetic,
		Degraded: true,
		Warnings: warnings,
	}
}

// try runs one time-boxed provider call through the link's breaker.
// Unknown symbols and cancellation of the caller's own context are not
// counted against the breaker.
func (c *Chain) try(ctx context.Context, link Link, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var candles []model.Candle
	var callErr error
	call := func() error {
		candles, callErr = link.Provider.FetchOHLCV(callCtx, symbol, tf, limit)
		if callErr == nil && len(candles) == 0 {
			callErr = ErrEmptySeries
		}
		if errors.Is(callErr, ErrUnknownSymbol) || ctx.Err() != nil {
			return nil
		}
		return callErr
	}

	start := time.Now()
	var err error
	if link.Breaker != nil {
		err = link.Breaker.Execute(call)
	} else {
		err = call()
	}
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, breaker.ErrCircuitOpen):
		c.metrics.ObserveProvider(link.Provider.Name(), metrics.OutcomeRejected, elapsed)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	case callErr != nil:
		c.metrics.ObserveProvider(link.Provider.Name(), metrics.OutcomeFailure, elapsed)
		return nil, callErr
	}
	c.metrics.ObserveProvider(link.Provider.Name(), metrics.OutcomeSuccess, elapsed)
	return candles, nil
}
