package model

import "errors"

// ErrEmptySymbol is returned for requests without a symbol.
var ErrEmptySymbol = errors.New("symbol is required")

// Request is the input to one analysis.
type Request struct {
	Symbol        string        `json:"symbol"`
	Timeframe     Timeframe     `json:"timeframe"`
	SignalType    SignalType    `json:"signalType"`
	RiskTolerance RiskTolerance `json:"riskTolerance"`
}

// CacheKey returns the cache key for this request:
// "signal:{symbol}:{timeframe}:{signalType}:{riskTolerance}".
func (r *Request) CacheKey() string {
	return "signal:" + r.Symbol + ":" + string(r.Timeframe) + ":" + string(r.SignalType) + ":" + string(r.RiskTolerance)
}

// EntryRange is the suggested entry band around the current price.
type EntryRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// FuturesContext is optional derivatives positioning data.
type FuturesContext struct {
	FundingRate    *float64 `json:"fundingRate"`
	OpenInterest   *float64 `json:"openInterest"`
	LongShortRatio *float64 `json:"longShortRatio"`
}

// CatalystContext is optional attention/sentiment data.
type CatalystContext struct {
	SentimentScore *float64 `json:"sentimentScore"` // percent of positive votes, 0-100
	TrendingRank   *int     `json:"trendingRank"`   // 1-based, nil when not trending
}

// MarketContext bundles the optional, additive scoring inputs.
type MarketContext struct {
	Futures  FuturesContext  `json:"futures"`
	Catalyst CatalystContext `json:"catalyst"`
}

// Empty reports whether no context field is populated.
func (c *MarketContext) Empty() bool {
	return c.Futures.FundingRate == nil && c.Futures.OpenInterest == nil && c.Futures.LongShortRatio == nil &&
		c.Catalyst.SentimentScore == nil && c.Catalyst.TrendingRank == nil
}

// Signal is the complete, display-rounded result of one analysis.
type Signal struct {
	Symbol         string         `json:"symbol"`
	Timeframe      Timeframe      `json:"timeframe"`
	SignalType     SignalType     `json:"signalType"`
	RiskTolerance  RiskTolerance  `json:"riskTolerance"`
	Signal         Action         `json:"signal"`
	Confidence     float64        `json:"confidence"`
	Regime         Regime         `json:"regime"`
	BuyScore       float64        `json:"buyScore"`
	SellScore      float64        `json:"sellScore"`
	Threshold      float64        `json:"threshold"`
	CurrentPrice   float64        `json:"currentPrice"`
	EntryRange     EntryRange     `json:"entryRange"`
	TakeProfit1    float64        `json:"takeProfit1"`
	TakeProfit1Pct float64        `json:"takeProfit1Pct"`
	TakeProfit2    float64        `json:"takeProfit2"`
	TakeProfit2Pct float64        `json:"takeProfit2Pct"`
	StopLoss       float64        `json:"stopLoss"`
	StopLossPct    float64        `json:"stopLossPct"`
	RiskReward     float64        `json:"riskReward"`
	Reasons        []string       `json:"reasons"`
	Indicators     IndicatorSet   `json:"indicators"`
	Context        *MarketContext `json:"context"`
	DataSource     DataSource     `json:"dataSource"`
	Degraded       bool           `json:"degraded"`
	Warnings       []string       `json:"warnings"`
	Timestamp      int64          `json:"timestamp"`
}
