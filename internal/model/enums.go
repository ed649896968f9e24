package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTimeframe     = errors.New("invalid timeframe")
	ErrInvalidSignalType    = errors.New("invalid signal type")
	ErrInvalidRiskTolerance = errors.New("invalid risk tolerance")
)

// Timeframe is the candle interval requested by the caller.
type Timeframe string

const (
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"

	DefaultTimeframe = TF4h
)

var timeframeIntervals = map[Timeframe]int64{
	TF15m: 900_000,
	TF1h:  3_600_000,
	TF4h:  14_400_000,
	TF1d:  86_400_000,
}

// IntervalMs returns the fixed interval length in milliseconds.
// Unknown values map to the 4h interval.
func (tf Timeframe) IntervalMs() int64 {
	if ms, ok := timeframeIntervals[tf]; ok {
		return ms
	}
	return timeframeIntervals[DefaultTimeframe]
}

// Valid reports whether tf is one of the supported timeframes.
func (tf Timeframe) Valid() bool {
	_, ok := timeframeIntervals[tf]
	return ok
}

// ParseTimeframe parses a timeframe string. An empty string yields the default.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTimeframe, nil
	}
	tf := Timeframe(s)
	if !tf.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}
	return tf, nil
}

// SignalType is the holding horizon the targets are sized for.
type SignalType string

const (
	SignalScalp    SignalType = "scalp"
	SignalSwing    SignalType = "swing"
	SignalPosition SignalType = "position"

	DefaultSignalType = SignalSwing
)

// ParseSignalType parses a horizon string. An empty string yields the default.
func ParseSignalType(s string) (SignalType, error) {
	switch st := SignalType(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return DefaultSignalType, nil
	case SignalScalp, SignalSwing, SignalPosition:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSignalType, s)
	}
}

// RiskTolerance controls how much evidence a directional call needs.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"

	DefaultRiskTolerance = RiskModerate
)

// ParseRiskTolerance parses a risk string. An empty string yields the default.
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	switch rt := RiskTolerance(strings.ToLower(strings.TrimSpace(s))); rt {
	case "":
		return DefaultRiskTolerance, nil
	case RiskConservative, RiskModerate, RiskAggressive:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRiskTolerance, s)
	}
}

// Action is the final recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Directional reports whether the action is BUY or SELL.
func (a Action) Directional() bool {
	return a == ActionBuy || a == ActionSell
}

// Regime is the classified market state.
type Regime string

const (
	RegimeUptrend   Regime = "uptrend"
	RegimeDowntrend Regime = "downtrend"
	RegimeRange     Regime = "range"
)

// DataSource names the link of the candle chain that produced the data.
type DataSource string

const (
	SourcePrimary   DataSource = "primary"
	SourceSecondary DataSource = "secondary"
	SourceSynthetic DataSource = "synthetic"
)
