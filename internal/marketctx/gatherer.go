package marketctx

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/metrics"
	"trading-signalsv1/internal/model"
)

// Gatherer implements model.ContextSource by fetching futures and catalyst
// data concurrently. Either client may be nil.
type Gatherer struct {
	futures  *FuturesClient
	catalyst *CatalystClient
	timeout  time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewGatherer(futures *FuturesClient, catalyst *CatalystClient, timeout time.Duration, m *metrics.Metrics) *Gatherer {
	return &Gatherer{
		futures:  futures,
		catalyst: catalyst,
		timeout:  timeout,
		metrics:  m,
		log:      logger.Component("marketctx"),
	}
}

// Gather never fails; missing pieces are returned as warnings.
func (g *Gatherer) Gather(ctx context.Context, symbol string) (model.MarketContext, []string) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var (
		wg          sync.WaitGroup
		out         model.MarketContext
		futuresWarn []string
		catWarn     []string
	)

	if g.futures != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out.Futures, futuresWarn = g.futures.Fetch(ctx, symbol)
		}()
	}
	if g.catalyst != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out.Catalyst, catWarn = g.catalyst.Fetch(ctx, symbol)
		}()
	}
	wg.Wait()

	if len(futuresWarn) > 0 {
		g.metrics.ObserveContextFailure("futures")
		g.log.Debug("futures context incomplete", "symbol", symbol, "warnings", futuresWarn, "trace_id", logger.TraceID(ctx))
	}
	if len(catWarn) > 0 {
		g.metrics.ObserveContextFailure("catalyst")
		g.log.Debug("catalyst context incomplete", "symbol", symbol, "warnings", catWarn, "trace_id", logger.TraceID(ctx))
	}

	return out, append(futuresWarn, catWarn...)
}
