package scoring

import (
	"math"

	"trading-signalsv1/internal/model"
)

// MinEdge is the score gap a directional call needs regardless of threshold.
const MinEdge = 0.9

var baseThresholds = map[model.RiskTolerance]float64{
	model.RiskConservative: 4.9,
	model.RiskModerate:     3.6,
	model.RiskAggressive:   2.6,
}

// Result is the outcome of one evaluation.
type Result struct {
	Signal       model.Action
	Confidence   float64
	Regime       model.Regime
	BuyScore     float64
	SellScore    float64
	BuyEvidence  int
	SellEvidence int
	Threshold    float64
	Edge         float64
	Reasons      []string
}

// Threshold returns the score a side must reach for a directional call.
// Unknown tolerances use the moderate base.
func Threshold(risk model.RiskTolerance, regime model.Regime, volatility20 *float64) float64 {
	t, ok := baseThresholds[risk]
	if !ok {
		t = baseThresholds[model.DefaultRiskTolerance]
	}
	if regime == model.RegimeRange {
		t += 0.2
	}
	if volatility20 != nil && *volatility20 > 0.025 {
		t += 0.2
	}
	return t
}

// Evaluate runs every rule over in and decides. If in.Regime is empty it is
// classified from the indicators.
func Evaluate(in Input, risk model.RiskTolerance) Result {
	if in.Regime == "" {
		in.Regime = ClassifyRegime(in.Indicators)
	}

	var s ScoreState
	for _, r := range indicatorRules {
		r(&s, in)
	}
	contextRules(&s, in)
	resolveContradiction(&s)

	res := Result{
		Regime:       in.Regime,
		BuyScore:     s.BuyScore,
		SellScore:    s.SellScore,
		BuyEvidence:  s.BuyEvidence,
		SellEvidence: s.SellEvidence,
		Threshold:    Threshold(risk, in.Regime, in.Indicators.Volatility20),
		Edge:         math.Abs(s.BuyScore - s.SellScore),
		Reasons:      s.Reasons,
	}
	res.Signal = decide(res)
	res.Confidence = confidence(res)
	return res
}

func decide(r Result) model.Action {
	if r.Edge < MinEdge {
		return model.ActionHold
	}
	switch {
	case r.BuyScore >= r.Threshold && r.BuyScore > r.SellScore:
		return model.ActionBuy
	case r.SellScore >= r.Threshold && r.SellScore > r.BuyScore:
		return model.ActionSell
	}
	return model.ActionHold
}

func confidence(r Result) float64 {
	switch r.Signal {
	case model.ActionBuy:
		return clamp(r.BuyScore*13+r.Edge*16+float64(r.BuyEvidence)*2, 55, 95)
	case model.ActionSell:
		return clamp(r.SellScore*13+r.Edge*16+float64(r.SellEvidence)*2, 55, 95)
	}
	return clamp(42+r.Edge*6, 40, 65)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
