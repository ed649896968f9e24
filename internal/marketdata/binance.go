package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/model"
)

// BinanceProvider fetches spot klines from the Binance REST API.
type BinanceProvider struct {
	client  *resty.Client
	symbols *config.SymbolMap
}

// NewBinanceProvider creates the primary candle provider.
func NewBinanceProvider(baseURL string, timeout time.Duration, symbols *config.SymbolMap) *BinanceProvider {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &BinanceProvider{client: client, symbols: symbols}
}

// Name implements model.CandleSource.
func (p *BinanceProvider) Name() string { return "binance" }

// FetchOHLCV implements model.CandleSource.
func (p *BinanceProvider) FetchOHLCV(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	info, _ := p.symbols.Lookup(symbol)

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":   info.PrimaryPair,
			"interval": binanceInterval(tf),
			"limit":    strconv.Itoa(limit),
		}).
		Get("/api/v3/klines")
	if err != nil {
		return nil, fmt.Errorf("%w: binance klines %s: %v", ErrProviderUnavailable, info.PrimaryPair, err)
	}
	if resp.StatusCode() == http.StatusBadRequest && gjson.GetBytes(resp.Body(), "code").Int() == -1121 {
		return nil, fmt.Errorf("%w: binance %s", ErrUnknownSymbol, info.PrimaryPair)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: binance klines %s: status %d", ErrProviderUnavailable, info.PrimaryPair, resp.StatusCode())
	}

	candles := parseKlines(resp.Body())
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: binance %s", ErrEmptySeries, info.PrimaryPair)
	}
	return trimNewest(candles, limit), nil
}

// parseKlines decodes rows of [openTime, "o", "h", "l", "c", "v", ...].
// Malformed rows are skipped.
func parseKlines(body []byte) []model.Candle {
	rows := gjson.ParseBytes(body)
	if !rows.IsArray() {
		return nil
	}

	var out []model.Candle
	var lastTS int64
	rows.ForEach(func(_, row gjson.Result) bool {
		f := row.Array()
		if len(f) < 6 {
			return true
		}
		c := model.Candle{
			TS:     f[0].Int(),
			Open:   f[1].Float(),
			High:   f[2].Float(),
			Low:    f[3].Float(),
			Close:  f[4].Float(),
			Volume: f[5].Float(),
		}
		if c.TS <= lastTS || c.Close <= 0 {
			return true
		}
		lastTS = c.TS
		out = append(out, c)
		return true
	})
	return out
}

func binanceInterval(tf model.Timeframe) string {
	if tf.Valid() {
		return string(tf)
	}
	return string(model.DefaultTimeframe)
}
