package main

import (
	"context"
	"log/slog"
	"time"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/analysis"
	"trading-signalsv1/internal/breaker"
	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/marketctx"
	"trading-signalsv1/internal/marketdata"
	"trading-signalsv1/internal/metrics"
	"trading-signalsv1/internal/model"
	"trading-signalsv1/internal/notification"
	redisstore "trading-signalsv1/internal/store/redis"
)

// pipeline is the assembled service graph.
type pipeline struct {
	analyzer *analysis.Analyzer
	metrics  *metrics.Metrics
	health   *metrics.HealthStatus
	cache    *redisstore.SignalCache // nil when disabled
}

type wireOptions struct {
	withCache    bool
	withNotifier bool
	withContext  bool
}

// buildPipeline wires providers, breakers, cache and notifiers from cfg.
// Optional dependencies that fail to start are logged and left out.
func buildPipeline(ctx context.Context, cfg *config.Config, opts wireOptions) *pipeline {
	log := logger.Component("wire")
	m := metrics.NewMetrics()
	health := metrics.NewHealthStatus()

	newBreaker := func(name string) *breaker.Breaker {
		b := breaker.New(name, cfg.BreakerMaxFailures, cfg.BreakerReset)
		b.OnStateChange = func(name string, from, to breaker.State) {
			m.ObserveBreaker(name, int(to))
			health.SetBreaker(name, to.String())
			log.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		}
		health.SetBreaker(name, breaker.StateClosed.String())
		return b
	}

	chain := marketdata.NewChain([]marketdata.Link{
		{
			Source:   model.SourcePrimary,
			Provider: marketdata.NewBinanceProvider(cfg.PrimaryBaseURL, cfg.ProviderTimeout, cfg.Symbols),
			Breaker:  newBreaker("binance"),
		},
		{
			Source:   model.SourceSecondary,
			Provider: marketdata.NewCoinGeckoProvider(cfg.SecondaryBaseURL, cfg.ProviderTimeout, cfg.Symbols),
			Breaker:  newBreaker("coingecko"),
		},
	}, marketdata.NewSyntheticGenerator(cfg.Symbols), cfg.ProviderTimeout, m)

	aopts := analysis.Options{
		Candles:     chain,
		Metrics:     m,
		Health:      health,
		CandleLimit: cfg.CandleLimit,
		CacheTTL:    cfg.CacheTTL,
	}

	if opts.withContext && cfg.ContextEnabled {
		aopts.Context = marketctx.NewGatherer(
			marketctx.NewFuturesClient(cfg.FuturesBaseURL, cfg.ProviderTimeout, cfg.Symbols),
			marketctx.NewCatalystClient(cfg.SecondaryBaseURL, cfg.ProviderTimeout, cfg.Symbols),
			cfg.ProviderTimeout, m,
		)
	}

	p := &pipeline{metrics: m, health: health}

	if opts.withCache && cfg.RedisAddr != "" {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("signal cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			p.cache = redisstore.NewSignalCache(client, newBreaker("redis"), m)
			aopts.Cache = p.cache
			health.SetCacheEnabled(true)
			health.StartRedisProbe(ctx, client, 15*time.Second)
			log.Info("signal cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	if opts.withNotifier {
		aopts.Notifier = buildNotifier(cfg, log)
	}

	p.analyzer = analysis.New(aopts)
	return p
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notification.Notifier {
	notifiers := []notification.Notifier{notification.NewLogNotifier()}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notification.NewWebhookNotifier(cfg.WebhookURL))
		log.Info("webhook alerts enabled")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifiers = append(notifiers, notification.NewTelegramNotifier(cfg.TelegramBaseURL, cfg.TelegramBotToken, cfg.TelegramChatID))
		log.Info("telegram alerts enabled")
	}
	return notification.NewMultiNotifier(notifiers...)
}

func (p *pipeline) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}
