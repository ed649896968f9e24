package marketdata

import (
	"context"
	"math"
	"strings"
	"time"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/model"
)

const (
	lcgMultiplier = 16807
	lcgModulus    = 2147483647 // 2^31 - 1

	defaultBasePrice  = 100.0
	defaultBaseVolume = 1000.0
)

// lcg is a Park-Miller minimal standard generator.
type lcg struct {
	state int64
}

// newLCG seeds the generator from the character codes of key.
func newLCG(key string) *lcg {
	var h int64
	for _, r := range key {
		h = (h*31 + int64(r)) % lcgModulus
	}
	if h <= 0 {
		h = 1
	}
	return &lcg{state: h}
}

// next returns a uniform value in [0, 1].
func (g *lcg) next() float64 {
	g.state = g.state * lcgMultiplier % lcgModulus
	return float64(g.state-1) / float64(lcgModulus-1)
}

// SyntheticGenerator produces a reproducible random walk for a symbol and
// timeframe. It is the last link of the chain and never fails.
type SyntheticGenerator struct {
	symbols *config.SymbolMap
	now     func() time.Time
}

// NewSyntheticGenerator creates a generator anchored on the symbol map's base prices.
func NewSyntheticGenerator(symbols *config.SymbolMap) *SyntheticGenerator {
	return &SyntheticGenerator{symbols: symbols, now: time.Now}
}

// WithClock replaces the wall clock (tests).
func (g *SyntheticGenerator) WithClock(now func() time.Time) *SyntheticGenerator {
	g.now = now
	return g
}

// Name implements model.CandleSource.
func (g *SyntheticGenerator) Name() string { return "synthetic" }

// FetchOHLCV implements model.CandleSource. It ignores ctx and never errors.
func (g *SyntheticGenerator) FetchOHLCV(_ context.Context, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	return g.Generate(symbol, tf, limit), nil
}

// Generate walks limit candles forward, ending at the interval containing now.
// Identical inputs inside the same interval produce identical output.
func (g *SyntheticGenerator) Generate(symbol string, tf model.Timeframe, limit int) []model.Candle {
	if limit <= 0 {
		return nil
	}
	if !tf.Valid() {
		tf = model.DefaultTimeframe
	}
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	info, _ := g.symbols.Lookup(sym)
	price := info.BasePrice
	if price <= 0 {
		price = defaultBasePrice
	}
	baseVolume := info.BaseVolume
	if baseVolume <= 0 {
		baseVolume = defaultBaseVolume
	}

	interval := tf.IntervalMs()
	nowMs := g.now().UnixMilli()
	end := nowMs - nowMs%interval
	start := end - int64(limit-1)*interval

	rng := newLCG(sym + string(tf))
	trend := (rng.next() - 0.5) * 0.004
	vol := 0.005 + rng.next()*0.02

	out := make([]model.Candle, limit)
	for i := range out {
		open := price
		closePx := open * (1 + trend + (rng.next()-0.5)*2*vol)
		high := math.Max(open, closePx) * (1 + rng.next()*vol*0.5)
		low := math.Min(open, closePx) * (1 - rng.next()*vol*0.5)
		out[i] = model.Candle{
			TS:     start + int64(i)*interval,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: baseVolume * (0.5 + rng.next()*1.5),
		}
		price = closePx
	}
	return out
}
