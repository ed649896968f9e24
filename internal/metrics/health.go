package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// HealthStatus represents the service health.
type HealthStatus struct {
	mu sync.RWMutex

	CacheEnabled   bool              `json:"cache_enabled"`
	RedisConnected bool              `json:"redis_connected"`
	RedisLatencyMs float64           `json:"redis_latency_ms"`
	LastAnalysisAt time.Time         `json:"last_analysis_at"`
	LastDataSource string            `json:"last_data_source"`
	Breakers       map[string]string `json:"breakers"`
	LastCheckAt    time.Time         `json:"last_check_at"`
	StartedAt      time.Time         `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		Breakers:  make(map[string]string),
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetCacheEnabled(v bool) {
	h.mu.Lock()
	h.CacheEnabled = v
	h.mu.Unlock()
}

// RecordAnalysis stores the time and data source of the latest analysis.
func (h *HealthStatus) RecordAnalysis(t time.Time, source string) {
	h.mu.Lock()
	h.LastAnalysisAt = t
	h.LastDataSource = source
	h.mu.Unlock()
}

// SetBreaker stores the latest state name of a circuit breaker.
func (h *HealthStatus) SetBreaker(name, state string) {
	h.mu.Lock()
	h.Breakers[name] = state
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartRedisProbe pings Redis every interval until ctx is cancelled.
func (h *HealthStatus) StartRedisProbe(ctx context.Context, rdb *goredis.Client, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			h.CheckRedis(probeCtx, rdb)
			cancel()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Status returns "ok", or "degraded" when a breaker is open, the cache is
// unreachable, or the last analysis ran on synthetic data.
func (h *HealthStatus) Status() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.CacheEnabled && !h.RedisConnected {
		return "degraded"
	}
	if h.LastDataSource == "synthetic" {
		return "degraded"
	}
	for _, st := range h.Breakers {
		if st == "open" {
			return "degraded"
		}
	}
	return "ok"
}

// ServeHTTP writes the health status as JSON. It always answers 200: a
// degraded data path still serves complete signals.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	overall := h.Status()

	h.mu.RLock()
	breakers := make(map[string]string, len(h.Breakers))
	for k, v := range h.Breakers {
		breakers[k] = v
	}
	lastAnalysis := ""
	if !h.LastAnalysisAt.IsZero() {
		lastAnalysis = h.LastAnalysisAt.Format(time.RFC3339)
	}
	status := struct {
		Status         string            `json:"status"`
		Uptime         string            `json:"uptime"`
		CacheEnabled   bool              `json:"cache_enabled"`
		RedisConnected bool              `json:"redis_connected"`
		RedisLatencyMs float64           `json:"redis_latency_ms"`
		LastAnalysisAt string            `json:"last_analysis_at"`
		LastDataSource string            `json:"last_data_source"`
		Breakers       map[string]string `json:"breakers"`
	}{
		Status:         overall,
		Uptime:         time.Since(h.StartedAt).Round(time.Second).String(),
		CacheEnabled:   h.CacheEnabled,
		RedisConnected: h.RedisConnected,
		RedisLatencyMs: h.RedisLatencyMs,
		LastAnalysisAt: lastAnalysis,
		LastDataSource: h.LastDataSource,
		Breakers:       breakers,
	}
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
