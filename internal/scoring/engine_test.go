package scoring

import (
	"math"
	"strings"
	"testing"

	"trading-signalsv1/internal/model"
)

func f(v float64) *float64 { return &v }

func assertClose(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %.6f, want %.6f", label, got, want)
	}
}

// bullishSet is an uptrend snapshot where every indicator rule fires for buyers.
func bullishSet() model.IndicatorSet {
	return model.IndicatorSet{
		CurrentPrice:   110,
		RSI:            f(35),
		MACD:           model.MACD{Line: f(2), Signal: f(1), Histogram: f(1)},
		BollingerBands: &model.Bands{Upper: 115, Middle: 105, Lower: 95},
		EMA20:          f(105),
		EMA50:          f(100),
		SMA200:         f(100),
		Momentum3:      f(0.02),
		Momentum10:     f(0.05),
		Volatility20:   f(0.01),
		VolumeRatio:    f(2.0),
	}
}

func TestClassifyRegime(t *testing.T) {
	tests := []struct {
		name        string
		ema20, ema5 *float64
		price       float64
		want        model.Regime
	}{
		{"uptrend", f(102), f(100), 100, model.RegimeUptrend},
		{"downtrend", f(98), f(100), 100, model.RegimeDowntrend},
		{"range", f(100.5), f(100), 100, model.RegimeRange},
		{"boundary counts as trend", f(101.2), f(100), 100, model.RegimeUptrend},
		{"missing ema", nil, f(100), 100, model.RegimeRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := model.IndicatorSet{CurrentPrice: tt.price, EMA20: tt.ema20, EMA50: tt.ema5}
			if got := ClassifyRegime(set); got != tt.want {
				t.Errorf("got %s, want %s (bias %.5f)", got, tt.want, TrendBias(set))
			}
		})
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		risk   model.RiskTolerance
		regime model.Regime
		vol    *float64
		want   float64
	}{
		{model.RiskConservative, model.RegimeUptrend, nil, 4.9},
		{model.RiskModerate, model.RegimeUptrend, f(0.01), 3.6},
		{model.RiskAggressive, model.RegimeDowntrend, nil, 2.6},
		{model.RiskModerate, model.RegimeRange, nil, 3.8},
		{model.RiskModerate, model.RegimeRange, f(0.03), 4.0},
		{model.RiskTolerance("yolo"), model.RegimeUptrend, nil, 3.6},
	}
	for _, tt := range tests {
		assertClose(t, string(tt.risk)+"/"+string(tt.regime), Threshold(tt.risk, tt.regime, tt.vol), tt.want)
	}
}

func TestEvaluate_AllBullishRules(t *testing.T) {
	res := Evaluate(Input{Indicators: bullishSet(), PrevMACD: model.MACD{Histogram: f(-0.5)}}, model.RiskModerate)

	if res.Regime != model.RegimeUptrend {
		t.Fatalf("regime = %s", res.Regime)
	}
	assertClose(t, "buy score", res.BuyScore, 1.6+1.9+1.5+0.7+1.1+0.6)
	assertClose(t, "sell score", res.SellScore, 0)
	if res.BuyEvidence != 6 {
		t.Errorf("buy evidence = %d", res.BuyEvidence)
	}
	if res.Signal != model.ActionBuy {
		t.Errorf("signal = %s", res.Signal)
	}
	assertClose(t, "confidence", res.Confidence, 95)
	if !strings.Contains(res.Reasons[1], "crossover") {
		t.Errorf("expected crossover reason second, got %v", res.Reasons)
	}
}

func TestRSIRule_ByRegime(t *testing.T) {
	tests := []struct {
		regime   model.Regime
		rsi      float64
		buy      float64
		sell     float64
		evidence int
	}{
		{model.RegimeRange, 29, 1.8, 0, 1},
		{model.RegimeRange, 71, 0, 1.8, 1},
		{model.RegimeRange, 50, 0, 0, 0},
		{model.RegimeUptrend, 37, 1.6, 0, 1},
		{model.RegimeUptrend, 75, 0, 0, 0},
		{model.RegimeUptrend, 79, 0, 1.2, 1},
		{model.RegimeDowntrend, 63, 0, 1.6, 1},
		{model.RegimeDowntrend, 21, 1.1, 0, 1},
		{model.RegimeDowntrend, 25, 0, 0, 0},
	}
	for _, tt := range tests {
		var s ScoreState
		rsiRule(&s, Input{Indicators: model.IndicatorSet{RSI: f(tt.rsi)}, Regime: tt.regime})
		assertClose(t, "buy", s.BuyScore, tt.buy)
		assertClose(t, "sell", s.SellScore, tt.sell)
		if s.BuyEvidence+s.SellEvidence != tt.evidence {
			t.Errorf("%s rsi=%v: evidence %d", tt.regime, tt.rsi, s.BuyEvidence+s.SellEvidence)
		}
		if len(s.Reasons) != 1 {
			t.Errorf("%s rsi=%v: every RSI reading should leave one reason", tt.regime, tt.rsi)
		}
	}
}

func TestMACDRule_Weights(t *testing.T) {
	bull := model.MACD{Line: f(1), Signal: f(0.5), Histogram: f(0.5)}
	bear := model.MACD{Line: f(-1), Signal: f(-0.5), Histogram: f(-0.5)}
	tests := []struct {
		name string
		cur  model.MACD
		prev *float64
		buy  float64
		sell float64
	}{
		{"bull crossover", bull, f(-0.1), 1.9, 0},
		{"bull crossover from zero", bull, f(0), 1.9, 0},
		{"bull strengthening", bull, f(0.2), 1.4, 0},
		{"bull persisting", bull, f(0.8), 1.1, 0},
		{"bull no history", bull, nil, 1.1, 0},
		{"bear crossover", bear, f(0.1), 0, 1.9},
		{"bear strengthening", bear, f(-0.2), 0, 1.4},
		{"bear persisting", bear, f(-0.9), 0, 1.1},
		{"no signal line", model.MACD{Line: f(1)}, nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ScoreState
			macdRule(&s, Input{Indicators: model.IndicatorSet{MACD: tt.cur}, PrevMACD: model.MACD{Histogram: tt.prev}})
			assertClose(t, "buy", s.BuyScore, tt.buy)
			assertClose(t, "sell", s.SellScore, tt.sell)
		})
	}
}

func TestBollingerRule(t *testing.T) {
	bands := &model.Bands{Upper: 110, Middle: 100, Lower: 90}

	var s ScoreState
	bollingerRule(&s, Input{Indicators: model.IndicatorSet{CurrentPrice: 89, BollingerBands: bands}, Regime: model.RegimeRange})
	assertClose(t, "lower touch", s.BuyScore, 1.4)

	s = ScoreState{}
	bollingerRule(&s, Input{Indicators: model.IndicatorSet{CurrentPrice: 89, BollingerBands: bands}, Regime: model.RegimeDowntrend})
	assertClose(t, "counter-trend lower touch", s.BuyScore, 0.8)

	s = ScoreState{}
	bollingerRule(&s, Input{Indicators: model.IndicatorSet{CurrentPrice: 111, BollingerBands: bands}, Regime: model.RegimeUptrend})
	assertClose(t, "counter-trend upper touch", s.SellScore, 0.8)

	// Zero-width bands: no touch on either side, only the compression penalty.
	flat := &model.Bands{Upper: 100, Middle: 100, Lower: 100}
	s = ScoreState{BuyScore: 1, SellScore: 1}
	bollingerRule(&s, Input{Indicators: model.IndicatorSet{CurrentPrice: 100, BollingerBands: flat}, Regime: model.RegimeRange})
	assertClose(t, "flat buy", s.BuyScore, 0.95)
	assertClose(t, "flat sell", s.SellScore, 0.95)
	if s.BuyEvidence != 0 || s.SellEvidence != 0 {
		t.Errorf("flat band counted as evidence: buy=%d sell=%d", s.BuyEvidence, s.SellEvidence)
	}
	if len(s.Reasons) != 1 {
		t.Errorf("expected only the compression reason, got %v", s.Reasons)
	}
}

func TestVolumeRule(t *testing.T) {
	s := ScoreState{SellScore: 2}
	volumeRule(&s, Input{Indicators: model.IndicatorSet{VolumeRatio: f(1.7)}})
	assertClose(t, "spike reinforces leader", s.SellScore, 2.6)
	if s.SellEvidence != 1 {
		t.Errorf("volume reinforcement should count as evidence")
	}

	s = ScoreState{BuyScore: 1, SellScore: 2}
	volumeRule(&s, Input{Indicators: model.IndicatorSet{VolumeRatio: f(0.5)}})
	assertClose(t, "low volume buy", s.BuyScore, 0.93)
	assertClose(t, "low volume sell", s.SellScore, 1.86)

	s = ScoreState{}
	volumeRule(&s, Input{Indicators: model.IndicatorSet{VolumeRatio: f(3)}})
	if s.BuyScore != 0 || s.SellScore != 0 {
		t.Errorf("spike without a leader should add nothing")
	}
}

func TestResolveContradiction(t *testing.T) {
	s := ScoreState{BuyScore: 4, SellScore: 2}
	resolveContradiction(&s)
	assertClose(t, "buy", s.BuyScore, 3.3)
	assertClose(t, "sell", s.SellScore, 1.3)

	s = ScoreState{BuyScore: 4}
	resolveContradiction(&s)
	assertClose(t, "one-sided unchanged", s.BuyScore, 4)
	if len(s.Reasons) != 0 {
		t.Errorf("one-sided state should not log a contradiction")
	}
}

func TestDecide_SmallEdgeIsHold(t *testing.T) {
	tests := []Result{
		{BuyScore: 12, SellScore: 11.2, Threshold: 3.6},
		{BuyScore: 0.5, SellScore: 9.1, Threshold: 10},
		{BuyScore: 4.49, SellScore: 3.6, Threshold: 2.6},
	}
	for _, r := range tests {
		r.Edge = math.Abs(r.BuyScore - r.SellScore)
		if got := decide(r); got != model.ActionHold {
			t.Errorf("buy=%.2f sell=%.2f: got %s, want HOLD", r.BuyScore, r.SellScore, got)
		}
	}
}

func TestDecide_ThresholdAndEdge(t *testing.T) {
	r := Result{BuyScore: 3.6, SellScore: 0, Threshold: 3.6, Edge: 3.6}
	if decide(r) != model.ActionBuy {
		t.Errorf("score equal to threshold should be enough")
	}
	r = Result{BuyScore: 0.2, SellScore: 2.7, Threshold: 2.6, Edge: 2.5}
	if decide(r) != model.ActionSell {
		t.Errorf("expected SELL")
	}
}

func TestConfidence_Clamps(t *testing.T) {
	assertClose(t, "hold floor", confidence(Result{Signal: model.ActionHold, Edge: 0}), 42)
	assertClose(t, "hold mid", confidence(Result{Signal: model.ActionHold, Edge: 0.5}), 45)
	assertClose(t, "hold cap", confidence(Result{Signal: model.ActionHold, Edge: 10}), 65)
	assertClose(t, "buy floor", confidence(Result{Signal: model.ActionBuy, BuyScore: 2.6, Edge: 0.9, BuyEvidence: 1}), 55)
	// 3*13 + 1*16 + 2*2 = 59
	assertClose(t, "sell", confidence(Result{Signal: model.ActionSell, SellScore: 3, Edge: 1, SellEvidence: 2}), 59)
	assertClose(t, "buy cap", confidence(Result{Signal: model.ActionBuy, BuyScore: 9, Edge: 9, BuyEvidence: 7}), 95)
}

func TestContextRules_AdditiveWithoutEvidence(t *testing.T) {
	mc := &model.MarketContext{
		Futures:  model.FuturesContext{FundingRate: f(-0.0005), LongShortRatio: f(0.7)},
		Catalyst: model.CatalystContext{SentimentScore: f(75), TrendingRank: func() *int { r := 3; return &r }()},
	}
	s := ScoreState{BuyScore: 1}
	contextRules(&s, Input{Context: mc})

	assertClose(t, "buy", s.BuyScore, 1+0.5+0.4+0.4+0.3)
	if s.BuyEvidence != 0 {
		t.Errorf("context must not add evidence, got %d", s.BuyEvidence)
	}
	if len(s.Reasons) != 4 {
		t.Errorf("expected 4 context reasons, got %v", s.Reasons)
	}

	bearish := &model.MarketContext{Futures: model.FuturesContext{FundingRate: f(0.001), LongShortRatio: f(2.5)},
		Catalyst: model.CatalystContext{SentimentScore: f(30)}}
	s = ScoreState{}
	contextRules(&s, Input{Context: bearish})
	assertClose(t, "sell", s.SellScore, 0.5+0.4+0.4)
}

func TestEvaluate_ContextCannotOverrideCore(t *testing.T) {
	in := Input{Indicators: bullishSet(), PrevMACD: model.MACD{Histogram: f(-0.5)}}
	base := Evaluate(in, model.RiskModerate)

	in.Context = &model.MarketContext{
		Futures:  model.FuturesContext{FundingRate: f(0.002), LongShortRatio: f(3)},
		Catalyst: model.CatalystContext{SentimentScore: f(10)},
	}
	withCtx := Evaluate(in, model.RiskModerate)
	if withCtx.Signal != base.Signal {
		t.Errorf("bearish context flipped a strong core BUY to %s", withCtx.Signal)
	}
	if withCtx.SellScore <= base.SellScore {
		t.Errorf("context weight should still be applied")
	}
}

func TestEvaluate_EmptyIndicators(t *testing.T) {
	res := Evaluate(Input{}, model.RiskAggressive)
	if res.Signal != model.ActionHold {
		t.Errorf("signal = %s", res.Signal)
	}
	if res.BuyScore != 0 || res.SellScore != 0 || len(res.Reasons) != 0 {
		t.Errorf("rules with missing inputs must not score: %+v", res)
	}
	if res.Regime != model.RegimeRange {
		t.Errorf("regime = %s", res.Regime)
	}
	assertClose(t, "confidence", res.Confidence, 42)
}
