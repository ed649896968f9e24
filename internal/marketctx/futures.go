// Package marketctx fetches optional futures positioning and catalyst
// (trending/sentiment) data that the scoring engine folds in additively.
package marketctx

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/model"
)

// FuturesClient reads funding, open interest and account long/short ratio
// from the Binance USD-M futures API.
type FuturesClient struct {
	client  *resty.Client
	symbols *config.SymbolMap
}

func NewFuturesClient(baseURL string, timeout time.Duration, symbols *config.SymbolMap) *FuturesClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	return &FuturesClient{client: client, symbols: symbols}
}

// Fetch returns whatever fields could be read; each failure becomes a warning.
func (c *FuturesClient) Fetch(ctx context.Context, symbol string) (model.FuturesContext, []string) {
	info, _ := c.symbols.Lookup(symbol)
	pair := info.PrimaryPair

	var out model.FuturesContext
	var warnings []string

	if v, err := c.getFloat(ctx, "/fapi/v1/premiumIndex", map[string]string{"symbol": pair}, "lastFundingRate"); err != nil {
		warnings = append(warnings, fmt.Sprintf("funding rate unavailable: %v", err))
	} else {
		out.FundingRate = &v
	}

	if v, err := c.getFloat(ctx, "/fapi/v1/openInterest", map[string]string{"symbol": pair}, "openInterest"); err != nil {
		warnings = append(warnings, fmt.Sprintf("open interest unavailable: %v", err))
	} else {
		out.OpenInterest = &v
	}

	params := map[string]string{"symbol": pair, "period": "1h", "limit": "1"}
	if v, err := c.getFloat(ctx, "/futures/data/globalLongShortAccountRatio", params, "0.longShortRatio"); err != nil {
		warnings = append(warnings, fmt.Sprintf("long/short ratio unavailable: %v", err))
	} else {
		out.LongShortRatio = &v
	}

	return out, warnings
}

func (c *FuturesClient) getFloat(ctx context.Context, path string, params map[string]string, field string) (float64, error) {
	resp, err := c.client.R().SetContext(ctx).SetQueryParams(params).Get(path)
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("status %d", resp.StatusCode())
	}
	v := gjson.GetBytes(resp.Body(), field)
	if !v.Exists() {
		return 0, fmt.Errorf("field %s missing", field)
	}
	return v.Float(), nil
}
