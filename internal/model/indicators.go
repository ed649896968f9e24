package model

// MACD holds the moving-average convergence/divergence triple.
// Fields are nil independently when the series is too short.
type MACD struct {
	Line      *float64 `json:"line"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
}

// Bands is a Bollinger envelope.
type Bands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Width returns (upper-lower)/middle, or 0 when middle is zero.
func (b *Bands) Width() float64 {
	if b.Middle == 0 {
		return 0
	}
	return (b.Upper - b.Lower) / b.Middle
}

// IndicatorSet is the snapshot of indicators for the latest candle.
// A nil field means the input was too short to compute it.
type IndicatorSet struct {
	CurrentPrice   float64  `json:"currentPrice"`
	RSI            *float64 `json:"rsi"`
	MACD           MACD     `json:"macd"`
	BollingerBands *Bands   `json:"bollingerBands"`
	EMA20          *float64 `json:"ema20"`
	EMA50          *float64 `json:"ema50"`
	SMA200         *float64 `json:"sma200"`
	ATR14          *float64 `json:"atr14"`
	Momentum3      *float64 `json:"momentum3"`
	Momentum10     *float64 `json:"momentum10"`
	Volatility20   *float64 `json:"volatility20"`
	LatestVolume   *float64 `json:"latestVolume"`
	AvgVolume      *float64 `json:"avgVolume"`
	VolumeRatio    *float64 `json:"volumeRatio"`
}
