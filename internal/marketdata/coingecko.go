package marketdata

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/model"
)

const dayMs = int64(24 * time.Hour / time.Millisecond)

// CoinGeckoProvider builds candles from the CoinGecko market_chart price series.
// Only closes and volumes are available, so highs and lows are a fixed
// envelope around the close.
type CoinGeckoProvider struct {
	client  *resty.Client
	symbols *config.SymbolMap
}

// NewCoinGeckoProvider creates the secondary candle provider.
func NewCoinGeckoProvider(baseURL string, timeout time.Duration, symbols *config.SymbolMap) *CoinGeckoProvider {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &CoinGeckoProvider{client: client, symbols: symbols}
}

// Name implements model.CandleSource.
func (p *CoinGeckoProvider) Name() string { return "coingecko" }

// FetchOHLCV implements model.CandleSource.
func (p *CoinGeckoProvider) FetchOHLCV(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	info, _ := p.symbols.Lookup(symbol)

	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("id", info.SecondaryID).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"days":        strconv.Itoa(chartDays(tf, limit)),
		}).
		Get("/coins/{id}/market_chart")
	if err != nil {
		return nil, fmt.Errorf("%w: coingecko %s: %v", ErrProviderUnavailable, info.SecondaryID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: coingecko %s", ErrUnknownSymbol, info.SecondaryID)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: coingecko %s: status %d", ErrProviderUnavailable, info.SecondaryID, resp.StatusCode())
	}

	candles := bucketMarketChart(resp.Body(), tf.IntervalMs())
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: coingecko %s", ErrEmptySeries, info.SecondaryID)
	}
	return trimNewest(candles, limit), nil
}

// chartDays returns how many days of history cover limit intervals, plus one.
func chartDays(tf model.Timeframe, limit int) int {
	return int(math.Ceil(float64(int64(limit)*tf.IntervalMs())/float64(dayMs))) + 1
}

// bucketMarketChart folds [ts, value] pairs into interval buckets. The last
// price and last volume seen in a bucket win.
func bucketMarketChart(body []byte, intervalMs int64) []model.Candle {
	doc := gjson.ParseBytes(body)

	type bucket struct {
		price, volume float64
	}
	buckets := make(map[int64]*bucket)
	var order []int64

	doc.Get("prices").ForEach(func(_, pair gjson.Result) bool {
		ts, price := pair.Get("0").Int(), pair.Get("1").Float()
		if price <= 0 {
			return true
		}
		key := ts - ts%intervalMs
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.price = price
		return true
	})
	doc.Get("total_volumes").ForEach(func(_, pair gjson.Result) bool {
		ts := pair.Get("0").Int()
		if b, ok := buckets[ts-ts%intervalMs]; ok {
			b.volume = pair.Get("1").Float()
		}
		return true
	})

	slices.Sort(order)
	out := make([]model.Candle, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		out = append(out, model.Candle{
			TS:     key,
			Open:   b.price,
			High:   b.price * 1.005,
			Low:    b.price * 0.995,
			Close:  b.price,
			Volume: b.volume,
		})
	}
	return out
}
