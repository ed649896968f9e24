package scoring

import "trading-signalsv1/internal/model"

// Input is everything the rules look at.
type Input struct {
	Indicators model.IndicatorSet
	PrevMACD   model.MACD // MACD over the series minus its last candle
	Regime     model.Regime
	Context    *model.MarketContext // optional
}

type rule func(s *ScoreState, in Input)

// indicatorRules run in this order. Multiplicative penalties only affect
// the scores accumulated before them.
var indicatorRules = []rule{
	rsiRule,
	macdRule,
	bollingerRule,
	emaStructureRule,
	sma200Rule,
	momentumRule,
	volumeRule,
}

type rsiBands struct {
	buyBelow, buyWeight   float64
	sellAbove, sellWeight float64
}

var rsiByRegime = map[model.Regime]rsiBands{
	model.RegimeRange:     {buyBelow: 30, buyWeight: 1.8, sellAbove: 70, sellWeight: 1.8},
	model.RegimeUptrend:   {buyBelow: 38, buyWeight: 1.6, sellAbove: 78, sellWeight: 1.2},
	model.RegimeDowntrend: {buyBelow: 22, buyWeight: 1.1, sellAbove: 62, sellWeight: 1.6},
}

func rsiRule(s *ScoreState, in Input) {
	if in.Indicators.RSI == nil {
		return
	}
	rsi := *in.Indicators.RSI
	b, ok := rsiByRegime[in.Regime]
	if !ok {
		b = rsiByRegime[model.RegimeRange]
	}
	switch {
	case rsi < b.buyBelow:
		s.buy(b.buyWeight, "RSI %.1f below %.0f in %s regime (oversold)", rsi, b.buyBelow, in.Regime)
	case rsi > b.sellAbove:
		s.sell(b.sellWeight, "RSI %.1f above %.0f in %s regime (overbought)", rsi, b.sellAbove, in.Regime)
	default:
		s.note("RSI %.1f neutral for %s regime", rsi, in.Regime)
	}
}

func macdRule(s *ScoreState, in Input) {
	m := in.Indicators.MACD
	if m.Line == nil || m.Signal == nil || m.Histogram == nil {
		return
	}
	hist := *m.Histogram
	prev := in.PrevMACD.Histogram

	switch {
	case hist > 0 && *m.Line > *m.Signal:
		switch {
		case prev != nil && *prev <= 0:
			s.buy(1.9, "MACD bullish crossover (histogram %.4f)", hist)
		case prev != nil && hist > *prev:
			s.buy(1.4, "MACD bullish momentum strengthening")
		default:
			s.buy(1.1, "MACD above signal line")
		}
	case hist < 0 && *m.Line < *m.Signal:
		switch {
		case prev != nil && *prev >= 0:
			s.sell(1.9, "MACD bearish crossover (histogram %.4f)", hist)
		case prev != nil && hist < *prev:
			s.sell(1.4, "MACD bearish momentum strengthening")
		default:
			s.sell(1.1, "MACD below signal line")
		}
	}
}

func bollingerRule(s *ScoreState, in Input) {
	bb := in.Indicators.BollingerBands
	if bb == nil {
		return
	}
	price := in.Indicators.CurrentPrice
	// a zero-width band has no sides to touch
	touchable := bb.Upper > bb.Lower

	if touchable && price <= bb.Lower {
		if in.Regime == model.RegimeDowntrend {
			s.buy(0.8, "Price at lower Bollinger band against the downtrend")
		} else {
			s.buy(1.4, "Price at lower Bollinger band")
		}
	}
	if touchable && price >= bb.Upper {
		if in.Regime == model.RegimeUptrend {
			s.sell(0.8, "Price at upper Bollinger band against the uptrend")
		} else {
			s.sell(1.4, "Price at upper Bollinger band")
		}
	}
	if w := bb.Width(); w < 0.04 {
		s.scale(0.95)
		s.note("Bollinger bands compressed (width %.4f), scores reduced", w)
	}
}

func emaStructureRule(s *ScoreState, in Input) {
	set := in.Indicators
	if set.EMA20 == nil || set.EMA50 == nil {
		return
	}
	price, e20, e50 := set.CurrentPrice, *set.EMA20, *set.EMA50
	switch {
	case price > e20 && e20 > e50:
		s.buy(1.5, "Bullish EMA structure (price > EMA20 > EMA50)")
	case price < e20 && e20 < e50:
		s.sell(1.5, "Bearish EMA structure (price < EMA20 < EMA50)")
	}
}

func sma200Rule(s *ScoreState, in Input) {
	if in.Indicators.SMA200 == nil {
		return
	}
	price, sma := in.Indicators.CurrentPrice, *in.Indicators.SMA200
	switch {
	case price > sma:
		s.buy(0.7, "Price above SMA200")
	case price < sma:
		s.sell(0.7, "Price below SMA200")
	}
}

func momentumRule(s *ScoreState, in Input) {
	m3, m10 := in.Indicators.Momentum3, in.Indicators.Momentum10
	if m3 == nil || m10 == nil {
		return
	}
	switch {
	case *m3 > 0 && *m10 > 0:
		s.buy(1.1, "Short and medium momentum aligned up (%.2f%%, %.2f%%)", *m3*100, *m10*100)
	case *m3 < 0 && *m10 < 0:
		s.sell(1.1, "Short and medium momentum aligned down (%.2f%%, %.2f%%)", *m3*100, *m10*100)
	}
}

func volumeRule(s *ScoreState, in Input) {
	if in.Indicators.VolumeRatio == nil {
		return
	}
	ratio := *in.Indicators.VolumeRatio
	switch {
	case ratio > 1.6:
		switch s.leader() {
		case 1:
			s.buy(0.6, "Volume %.2fx average confirms buyers", ratio)
		case -1:
			s.sell(0.6, "Volume %.2fx average confirms sellers", ratio)
		}
	case ratio < 0.75:
		s.scale(0.93)
		s.note("Low volume (%.2fx average), conviction reduced", ratio)
	}
}

// contextRules adds optional futures and catalyst inputs. They add weight and
// reasons but never evidence counts.
func contextRules(s *ScoreState, in Input) {
	if in.Context == nil {
		return
	}
	f, c := in.Context.Futures, in.Context.Catalyst

	if f.FundingRate != nil {
		switch fr := *f.FundingRate; {
		case fr > 0.0005:
			s.nudgeSell(0.5, "Funding rate %.4f%% shows crowded longs", fr*100)
		case fr < -0.0003:
			s.nudgeBuy(0.5, "Funding rate %.4f%% shows crowded shorts", fr*100)
		}
	}
	if f.LongShortRatio != nil {
		switch r := *f.LongShortRatio; {
		case r > 2.2:
			s.nudgeSell(0.4, "Long/short ratio %.2f is stretched long", r)
		case r < 0.8:
			s.nudgeBuy(0.4, "Long/short ratio %.2f is stretched short", r)
		}
	}
	if c.SentimentScore != nil {
		switch v := *c.SentimentScore; {
		case v >= 70:
			s.nudgeBuy(0.4, "Community sentiment %.0f%% positive", v)
		case v <= 35:
			s.nudgeSell(0.4, "Community sentiment only %.0f%% positive", v)
		}
	}
	if c.TrendingRank != nil && *c.TrendingRank >= 1 && *c.TrendingRank <= 7 {
		switch s.leader() {
		case 1:
			s.nudgeBuy(0.3, "Trending #%d, attention supports buyers", *c.TrendingRank)
		case -1:
			s.nudgeSell(0.3, "Trending #%d, attention supports sellers", *c.TrendingRank)
		}
	}
}

// resolveContradiction removes the overlap when both sides have weight.
func resolveContradiction(s *ScoreState) {
	if s.BuyScore <= 0 || s.SellScore <= 0 {
		return
	}
	penalty := 0.35 * min(s.BuyScore, s.SellScore)
	s.BuyScore -= penalty
	s.SellScore -= penalty
	s.note("Mixed signals, both sides reduced by %.2f", penalty)
}
