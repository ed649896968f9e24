// Package redis is the optional Redis-backed signal cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"trading-signalsv1/internal/breaker"
	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/metrics"
	"trading-signalsv1/internal/model"
)

// Config configures the Redis connection.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Connect creates a client and pings the server.
func Connect(ctx context.Context, cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// SignalCache implements model.SignalCache on Redis strings holding JSON.
// All failures degrade to a miss; the breaker stops hammering a dead server.
type SignalCache struct {
	client  *goredis.Client
	breaker *breaker.Breaker
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewSignalCache wraps client. br and m may be nil.
func NewSignalCache(client *goredis.Client, br *breaker.Breaker, m *metrics.Metrics) *SignalCache {
	return &SignalCache{
		client:  client,
		breaker: br,
		metrics: m,
		log:     logger.Component("cache"),
	}
}

// Client returns the underlying Redis client for health checks.
func (c *SignalCache) Client() *goredis.Client { return c.client }

// Get returns the cached signal for key.
func (c *SignalCache) Get(ctx context.Context, key string) (*model.Signal, bool) {
	var data []byte
	err := c.execute(func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		data = b
		return err
	})
	if err != nil {
		c.metrics.ObserveCache(metrics.CacheError)
		c.log.Debug("cache get failed", "key", key, "error", err, "trace_id", logger.TraceID(ctx))
		return nil, false
	}
	if data == nil {
		c.metrics.ObserveCache(metrics.CacheMiss)
		return nil, false
	}

	var sig model.Signal
	if err := json.Unmarshal(data, &sig); err != nil {
		c.metrics.ObserveCache(metrics.CacheError)
		c.log.Warn("cache entry undecodable", "key", key, "error", err)
		return nil, false
	}
	c.metrics.ObserveCache(metrics.CacheHit)
	return &sig, true
}

// Set stores sig under key with ttl.
func (c *SignalCache) Set(ctx context.Context, key string, sig model.Signal, ttl time.Duration) error {
	data, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}
	err = c.execute(func() error {
		return c.client.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *SignalCache) Close() error {
	return c.client.Close()
}

func (c *SignalCache) execute(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn)
}
