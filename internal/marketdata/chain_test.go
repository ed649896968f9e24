package marketdata

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/breaker"
	"trading-signalsv1/internal/metrics"
	"trading-signalsv1/internal/model"
)

// stubSource returns canned candles or an error and counts calls.
type stubSource struct {
	name    string
	candles []model.Candle
	err     error
	delay   time.Duration
	calls   int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchOHLCV(ctx context.Context, _ string, _ model.Timeframe, _ int) ([]model.Candle, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.candles, s.err
}

var fixedNow = time.Date(2024, 3, 1, 10, 17, 0, 0, time.UTC)

func testGenerator() *SyntheticGenerator {
	return NewSyntheticGenerator(config.DefaultSymbolMap()).WithClock(func() time.Time { return fixedNow })
}

func someCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		p := 100 + float64(i)
		out[i] = model.Candle{TS: int64(i) * 3_600_000, Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 10}
	}
	return out
}

func TestChain_PrimaryServes(t *testing.T) {
	primary := &stubSource{name: "p", candles: someCandles(5)}
	secondary := &stubSource{name: "s", candles: someCandles(3)}
	chain := NewChain([]Link{
		{Source: model.SourcePrimary, Provider: primary},
		{Source: model.SourceSecondary, Provider: secondary},
	}, testGenerator(), time.Second, nil)

	res := chain.Fetch(context.Background(), "BTC", model.TF1h, 5)
	if res.Source != model.SourcePrimary || res.Degraded || len(res.Warnings) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.Candles) != 5 {
		t.Errorf("expected 5 candles, got %d", len(res.Candles))
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be called")
	}
}

func TestChain_FallsBackToSecondary(t *testing.T) {
	m := metrics.NewMetrics()
	primary := &stubSource{name: "p", err: ErrProviderUnavailable}
	secondary := &stubSource{name: "s", candles: someCandles(3)}
	chain := NewChain([]Link{
		{Source: model.SourcePrimary, Provider: primary},
		{Source: model.SourceSecondary, Provider: secondary},
	}, testGenerator(), time.Second, m)

	res := chain.Fetch(context.Background(), "BTC", model.TF1h, 5)
	if res.Source != model.SourceSecondary || !res.Degraded {
		t.Errorf("expected degraded secondary result, got %+v", res)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", res.Warnings)
	}
	if got := testutil.ToFloat64(m.ProviderRequests.WithLabelValues("p", metrics.OutcomeFailure)); got != 1 {
		t.Errorf("primary failure count = %v", got)
	}
	if got := testutil.ToFloat64(m.DegradedTotal); got != 1 {
		t.Errorf("degraded count = %v", got)
	}
}

func TestChain_EmptySeriesIsFailure(t *testing.T) {
	primary := &stubSource{name: "p"}
	chain := NewChain([]Link{{Source: model.SourcePrimary, Provider: primary}}, testGenerator(), time.Second, nil)

	res := chain.Fetch(context.Background(), "BTC", model.TF1h, 50)
	if res.Source != model.SourceSynthetic {
		t.Errorf("expected synthetic fallback, got %s", res.Source)
	}
}

func TestChain_AllFailYieldsSynthetic(t *testing.T) {
	chain := NewChain([]Link{
		{Source: model.SourcePrimary, Provider: &stubSource{name: "p", err: errors.New("boom")}},
		{Source: model.SourceSecondary, Provider: &stubSource{name: "s", err: errors.New("boom")}},
	}, testGenerator(), time.Second, nil)

	res := chain.Fetch(context.Background(), "BTC", model.TF4h, 300)
	if res.Source != model.SourceSynthetic || !res.Degraded {
		t.Fatalf("expected degraded synthetic result, got %s degraded=%v", res.Source, res.Degraded)
	}
	if len(res.Candles) != 300 {
		t.Errorf("expected 300 synthetic candles, got %d", len(res.Candles))
	}
	if len(res.Warnings) != 3 {
		t.Errorf("expected one warning per failed link plus synthetic notice, got %v", res.Warnings)
	}
}

func TestChain_TimeoutAdvances(t *testing.T) {
	slow := &stubSource{name: "slow", candles: someCandles(5), delay: time.Second}
	fast := &stubSource{name: "fast", candles: someCandles(5)}
	chain := NewChain([]Link{
		{Source: model.SourcePrimary, Provider: slow},
		{Source: model.SourceSecondary, Provider: fast},
	}, testGenerator(), 20*time.Millisecond, nil)

	start := time.Now()
	res := chain.Fetch(context.Background(), "BTC", model.TF1h, 5)
	if res.Source != model.SourceSecondary {
		t.Errorf("expected secondary after timeout, got %s", res.Source)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("timeout not applied")
	}
}

func TestChain_OpenBreakerSkipsProvider(t *testing.T) {
	primary := &stubSource{name: "p", err: ErrProviderUnavailable}
	br := breaker.New("p", 1, time.Minute)
	chain := NewChain([]Link{{Source: model.SourcePrimary, Provider: primary, Breaker: br}}, testGenerator(), time.Second, nil)

	chain.Fetch(context.Background(), "BTC", model.TF1h, 10)
	chain.Fetch(context.Background(), "BTC", model.TF1h, 10)

	if primary.calls != 1 {
		t.Errorf("expected provider to be called once before the breaker opened, got %d", primary.calls)
	}
	if br.CurrentState() != breaker.StateOpen {
		t.Errorf("breaker state = %v", br.CurrentState())
	}
}

func TestChain_UnknownSymbolDoesNotTripBreaker(t *testing.T) {
	primary := &stubSource{name: "p", err: ErrUnknownSymbol}
	br := breaker.New("p", 1, time.Minute)
	chain := NewChain([]Link{{Source: model.SourcePrimary, Provider: primary, Breaker: br}}, testGenerator(), time.Second, nil)

	chain.Fetch(context.Background(), "ZZZ", model.TF1h, 10)
	if br.CurrentState() != breaker.StateClosed {
		t.Errorf("breaker should stay closed, got %v", br.CurrentState())
	}
}

func TestChain_WarnsWhenCandlesSparserThanTimeframe(t *testing.T) {
	primary := &stubSource{name: "p", err: ErrProviderUnavailable}
	hourly := &stubSource{name: "s", candles: someCandles(20)}
	chain := NewChain([]Link{
		{Source: model.SourcePrimary, Provider: primary},
		{Source: model.SourceSecondary, Provider: hourly},
	}, testGenerator(), time.Second, nil)

	res := chain.Fetch(context.Background(), "BTC", model.TF15m, 20)
	if res.Source != model.SourceSecondary {
		t.Fatalf("source = %s", res.Source)
	}
	if len(res.Warnings) != 2 || !strings.Contains(res.Warnings[1], "sparser than 15m") {
		t.Errorf("expected a sparse-series warning, got %v", res.Warnings)
	}

	res = chain.Fetch(context.Background(), "BTC", model.TF1h, 20)
	if len(res.Warnings) != 1 {
		t.Errorf("hourly candles at 1h should not warn, got %v", res.Warnings)
	}
}

func TestChain_CallerCancelDoesNotTripBreaker(t *testing.T) {
	primary := &stubSource{name: "p", candles: someCandles(5), delay: 50 * time.Millisecond}
	br := breaker.New("p", 3, time.Minute)
	chain := NewChain([]Link{{Source: model.SourcePrimary, Provider: primary, Breaker: br}}, testGenerator(), time.Second, nil)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		chain.Fetch(cancelled, "BTC", model.TF1h, 5)
	}
	if br.CurrentState() != breaker.StateClosed {
		t.Fatalf("abandoned requests opened the breaker: %v", br.CurrentState())
	}

	res := chain.Fetch(context.Background(), "BTC", model.TF1h, 5)
	if res.Source != model.SourcePrimary || res.Degraded {
		t.Errorf("healthy provider should serve the next request, got %s degraded=%v", res.Source, res.Degraded)
	}
	if primary.calls != 4 {
		t.Errorf("calls = %d, want 4", primary.calls)
	}
}

func TestSynthetic_Deterministic(t *testing.T) {
	a := testGenerator().Generate("ETH", model.TF1h, 300)
	b := testGenerator().Generate("ETH", model.TF1h, 300)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different candles")
	}

	// later in the same interval
	later := NewSyntheticGenerator(config.DefaultSymbolMap()).
		WithClock(func() time.Time { return fixedNow.Add(30 * time.Minute) })
	if !reflect.DeepEqual(a, later.Generate("ETH", model.TF1h, 300)) {
		t.Error("output changed within the same interval")
	}

	if reflect.DeepEqual(a, testGenerator().Generate("ETH", model.TF4h, 300)) {
		t.Error("different timeframe should change the series")
	}
	if reflect.DeepEqual(a, testGenerator().Generate("SOL", model.TF1h, 300)) {
		t.Error("different symbol should change the series")
	}
}

func TestSynthetic_Shape(t *testing.T) {
	candles := testGenerator().Generate("BTC", model.TF4h, 200)
	interval := model.TF4h.IntervalMs()

	last := candles[len(candles)-1]
	nowMs := fixedNow.UnixMilli()
	if last.TS != nowMs-nowMs%interval {
		t.Errorf("last candle should open at the current interval boundary")
	}
	for i, c := range candles {
		if c.High < c.Open || c.High < c.Close || c.Low > c.Open || c.Low > c.Close {
			t.Fatalf("candle %d violates OHLC ordering: %+v", i, c)
		}
		if c.Volume <= 0 || c.Close <= 0 {
			t.Fatalf("candle %d has non-positive values: %+v", i, c)
		}
		if i > 0 {
			if c.TS-candles[i-1].TS != interval {
				t.Fatalf("candle %d not spaced by the interval", i)
			}
			if c.Open != candles[i-1].Close {
				t.Fatalf("candle %d does not open at the previous close", i)
			}
		}
	}
	if candles[0].Open != 65000 {
		t.Errorf("expected walk to start at the BTC base price, got %v", candles[0].Open)
	}
}

func TestSynthetic_UnknownSymbolAndTimeframe(t *testing.T) {
	g := testGenerator()
	candles := g.Generate("UNLISTED", model.Timeframe("7m"), 10)
	if candles[0].Open != defaultBasePrice {
		t.Errorf("expected default base price, got %v", candles[0].Open)
	}
	if candles[1].TS-candles[0].TS != model.TF4h.IntervalMs() {
		t.Errorf("unknown timeframe should use the 4h interval")
	}
	if g.Generate("BTC", model.TF1h, 0) != nil {
		t.Errorf("zero limit should return nil")
	}
}

func TestLCG_Range(t *testing.T) {
	g := newLCG("")
	if g.state != 1 {
		t.Fatalf("empty key should seed 1, got %d", g.state)
	}
	if v := g.next(); v != float64(16807-1)/float64(lcgModulus-1) {
		t.Errorf("first value = %v", v)
	}
	for i := 0; i < 10000; i++ {
		if v := g.next(); v < 0 || v > 1 {
			t.Fatalf("value out of range: %v", v)
		}
	}
}
