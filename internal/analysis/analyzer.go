// Package analysis runs the signal pipeline for one request:
// candles, indicators, regime scoring, targets, then a display-rounded Signal.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trading-signalsv1/internal/indicator"
	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/marketdata"
	"trading-signalsv1/internal/metrics"
	"trading-signalsv1/internal/model"
	"trading-signalsv1/internal/notification"
	"trading-signalsv1/internal/scoring"
	"trading-signalsv1/internal/targets"
)

const (
	DefaultCandleLimit = 300
	DefaultCacheTTL    = 60 * time.Second

	// fullHistory is the longest indicator window (SMA200).
	fullHistory  = 200
	alertTimeout = 15 * time.Second
)

// CandleFetcher is satisfied by *marketdata.Chain.
type CandleFetcher interface {
	Fetch(ctx context.Context, symbol string, tf model.Timeframe, limit int) marketdata.Result
}

// Options configures an Analyzer. Only Candles is required.
type Options struct {
	Candles     CandleFetcher
	Context     model.ContextSource   // optional futures/catalyst inputs
	Cache       model.SignalCache     // optional
	Notifier    notification.Notifier // optional, alerts on BUY/SELL
	Metrics     *metrics.Metrics      // optional
	Health      *metrics.HealthStatus // optional
	CandleLimit int
	CacheTTL    time.Duration
	Now         func() time.Time
}

// Analyzer is safe for concurrent use; requests share no mutable state.
type Analyzer struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Analyzer {
	if opts.CandleLimit <= 0 {
		opts.CandleLimit = DefaultCandleLimit
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Analyzer{opts: opts, log: logger.Component("analysis")}
}

// Normalize upper-cases the symbol and replaces unknown enum values with
// their defaults. It fails only for an empty symbol.
func Normalize(req model.Request) (model.Request, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return req, model.ErrEmptySymbol
	}
	if !req.Timeframe.Valid() {
		req.Timeframe = model.DefaultTimeframe
	}
	if st, err := model.ParseSignalType(string(req.SignalType)); err == nil {
		req.SignalType = st
	} else {
		req.SignalType = model.DefaultSignalType
	}
	if rt, err := model.ParseRiskTolerance(string(req.RiskTolerance)); err == nil {
		req.RiskTolerance = rt
	} else {
		req.RiskTolerance = model.DefaultRiskTolerance
	}
	return req, nil
}

// Analyze produces a complete Signal. The error is non-nil only for a
// malformed request; provider outages yield a degraded Signal instead.
func (a *Analyzer) Analyze(ctx context.Context, req model.Request) (model.Signal, error) {
	req, err := Normalize(req)
	if err != nil {
		return model.Signal{}, err
	}
	start := time.Now()
	key := req.CacheKey()

	if a.opts.Cache != nil {
		if cached, ok := a.opts.Cache.Get(ctx, key); ok {
			a.log.Debug("cache hit", "key", key, "trace_id", logger.TraceID(ctx))
			return *cached, nil
		}
	}

	data := a.opts.Candles.Fetch(ctx, req.Symbol, req.Timeframe, a.opts.CandleLimit)
	warnings := append([]string(nil), data.Warnings...)
	if n := len(data.Candles); n < fullHistory {
		warnings = append(warnings, fmt.Sprintf("only %d candles available; long-window indicators may be missing", n))
	}

	set := indicator.Compute(data.Candles)
	in := scoring.Input{
		Indicators: set,
		PrevMACD:   indicator.PreviousMACD(data.Candles),
		Regime:     scoring.ClassifyRegime(set),
	}

	var mc *model.MarketContext
	if a.opts.Context != nil {
		gathered, ctxWarnings := a.opts.Context.Gather(ctx, req.Symbol)
		warnings = append(warnings, ctxWarnings...)
		if !gathered.Empty() {
			mc = &gathered
			in.Context = mc
		}
	}

	res := scoring.Evaluate(in, req.RiskTolerance)
	levels := targets.Calculate(res.Signal, req.SignalType, set.CurrentPrice, set.ATR14)

	sig := model.Signal{
		Symbol:         req.Symbol,
		Timeframe:      req.Timeframe,
		SignalType:     req.SignalType,
		RiskTolerance:  req.RiskTolerance,
		Signal:         res.Signal,
		Confidence:     round(res.Confidence, confidencePlaces),
		Regime:         res.Regime,
		BuyScore:       round(res.BuyScore, scorePlaces),
		SellScore:      round(res.SellScore, scorePlaces),
		Threshold:      round(res.Threshold, scorePlaces),
		CurrentPrice:   round(set.CurrentPrice, pricePlaces),
		EntryRange:     levels.Entry,
		TakeProfit1:    levels.TakeProfit1,
		TakeProfit1Pct: levels.TakeProfit1Pct,
		TakeProfit2:    levels.TakeProfit2,
		TakeProfit2Pct: levels.TakeProfit2Pct,
		StopLoss:       levels.StopLoss,
		StopLossPct:    levels.StopLossPct,
		RiskReward:     levels.RiskReward,
		Reasons:        res.Reasons,
		Indicators:     roundIndicators(set),
		Context:        mc,
		DataSource:     data.Source,
		Degraded:       data.Degraded,
		Warnings:       warnings,
		Timestamp:      a.opts.Now().UnixMilli(),
	}
	if sig.Reasons == nil {
		sig.Reasons = []string{}
	}
	if sig.Warnings == nil {
		sig.Warnings = []string{}
	}

	elapsed := time.Since(start)
	a.opts.Metrics.ObserveAnalysis(string(sig.Signal), string(sig.Regime), elapsed)
	if a.opts.Health != nil {
		a.opts.Health.RecordAnalysis(a.opts.Now(), string(sig.DataSource))
	}

	a.log.Info("signal computed",
		"symbol", sig.Symbol,
		"timeframe", sig.Timeframe,
		"signal", sig.Signal,
		"confidence", sig.Confidence,
		"regime", sig.Regime,
		"source", sig.DataSource,
		"degraded", sig.Degraded,
		"duration_ms", elapsed.Milliseconds(),
		"trace_id", logger.TraceID(ctx),
	)

	if a.opts.Cache != nil && !sig.Degraded {
		if err := a.opts.Cache.Set(ctx, key, sig, a.opts.CacheTTL); err != nil {
			a.log.Debug("cache set failed", "key", key, "error", err, "trace_id", logger.TraceID(ctx))
		}
	}

	if a.opts.Notifier != nil && sig.Signal.Directional() {
		a.alert(ctx, sig)
	}

	return sig, nil
}

// alert delivers asynchronously so a slow channel never delays the response.
func (a *Analyzer) alert(ctx context.Context, sig model.Signal) {
	alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	go func() {
		defer cancel()
		if err := a.opts.Notifier.Send(alertCtx, notification.SignalAlert(sig)); err != nil {
			a.opts.Metrics.ObserveAlert("failed")
			a.log.Warn("alert delivery failed", "symbol", sig.Symbol, "error", err, "trace_id", logger.TraceID(ctx))
			return
		}
		a.opts.Metrics.ObserveAlert("sent")
	}()
}
