package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider call outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected" // circuit breaker open
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds all Prometheus metrics for the signal engine.
// All helper methods are safe on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Candle source chain
	ProviderRequests *prometheus.CounterVec   // labels: provider, outcome
	ProviderDuration *prometheus.HistogramVec // labels: provider
	CandleSource     *prometheus.CounterVec   // labels: source
	DegradedTotal    prometheus.Counter

	// Optional context fetchers
	ContextFailures *prometheus.CounterVec // labels: source

	// Pipeline
	AnalysisDuration prometheus.Histogram
	SignalsTotal     *prometheus.CounterVec // labels: signal, regime

	// Cache
	CacheRequests *prometheus.CounterVec // labels: result

	// Circuit breakers
	BreakerState *prometheus.GaugeVec   // labels: breaker; 0=closed, 1=open, 2=half-open
	BreakerTrips *prometheus.CounterVec // labels: breaker

	// Alerts
	AlertsTotal *prometheus.CounterVec // labels: outcome
}

// NewMetrics creates the metrics on a fresh registry that also carries the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalengine_provider_requests_total",
			Help: "Candle provider calls by outcome",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signalengine_provider_duration_seconds",
			Help:    "Candle provider call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		CandleSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalengine_candle_source_total",
			Help: "Analyses served by each link of the candle chain",
		}, []string{"source"}),
		DegradedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalengine_degraded_signals_total",
			Help: "Signals produced from fallback or synthetic data",
		}),

		ContextFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalengine_context_failures_total",
			Help: "Optional market context fetch failures",
		}, []string{"source"}),

		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalengine_analysis_duration_seconds",
			Help:    "End-to-end analysis latency including data fetch",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalengine_signals_total",
			Help: "Signals emitted by action and regime",
		}, []string{"signal", "regime"}),

		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalengine_cache_requests_total",
			Help: "Signal cache lookups by result",
		}, []string{"result"}),

		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signalengine_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"breaker"}),
		BreakerTrips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalengine_circuit_breaker_trips_total",
			Help: "Times each circuit breaker opened",
		}, []string{"breaker"}),

		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalengine_alerts_total",
			Help: "Signal alerts sent by outcome",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ProviderRequests,
		m.ProviderDuration,
		m.CandleSource,
		m.DegradedTotal,
		m.ContextFailures,
		m.AnalysisDuration,
		m.SignalsTotal,
		m.CacheRequests,
		m.BreakerState,
		m.BreakerTrips,
		m.AlertsTotal,
	)

	return m
}

// Registry exposes the underlying registry (for tests and custom exporters).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveProvider records one provider call.
func (m *Metrics) ObserveProvider(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeRejected {
		m.ProviderDuration.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// ObserveSource records which chain link served a request.
func (m *Metrics) ObserveSource(source string, degraded bool) {
	if m == nil {
		return
	}
	m.CandleSource.WithLabelValues(source).Inc()
	if degraded {
		m.DegradedTotal.Inc()
	}
}

// ObserveContextFailure records a failed optional context fetch.
func (m *Metrics) ObserveContextFailure(source string) {
	if m == nil {
		return
	}
	m.ContextFailures.WithLabelValues(source).Inc()
}

// ObserveAnalysis records a finished analysis.
func (m *Metrics) ObserveAnalysis(signal, regime string, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Observe(d.Seconds())
	m.SignalsTotal.WithLabelValues(signal, regime).Inc()
}

// ObserveCache records a cache lookup result.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// ObserveBreaker records a breaker transition. to is the numeric state.
func (m *Metrics) ObserveBreaker(name string, to int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(to))
	if to == 1 {
		m.BreakerTrips.WithLabelValues(name).Inc()
	}
}

// ObserveAlert records an alert delivery outcome.
func (m *Metrics) ObserveAlert(outcome string) {
	if m == nil {
		return
	}
	m.AlertsTotal.WithLabelValues(outcome).Inc()
}
