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

// CatalystClient reads trending rank and community sentiment from CoinGecko.
type CatalystClient struct {
	client  *resty.Client
	symbols *config.SymbolMap
}

func NewCatalystClient(baseURL string, timeout time.Duration, symbols *config.SymbolMap) *CatalystClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	return &CatalystClient{client: client, symbols: symbols}
}

// Fetch returns the catalyst fields. A coin absent from the trending list is
// not a failure; its rank is simply nil.
func (c *CatalystClient) Fetch(ctx context.Context, symbol string) (model.CatalystContext, []string) {
	info, _ := c.symbols.Lookup(symbol)

	var out model.CatalystContext
	var warnings []string

	if rank, err := c.trendingRank(ctx, info.SecondaryID); err != nil {
		warnings = append(warnings, fmt.Sprintf("trending data unavailable: %v", err))
	} else if rank > 0 {
		out.TrendingRank = &rank
	}

	if score, err := c.sentiment(ctx, info.SecondaryID); err != nil {
		warnings = append(warnings, fmt.Sprintf("sentiment unavailable: %v", err))
	} else {
		out.SentimentScore = &score
	}

	return out, warnings
}

// trendingRank returns the 1-based position of id in the trending list, or 0.
func (c *CatalystClient) trendingRank(ctx context.Context, id string) (int, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/search/trending")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("status %d", resp.StatusCode())
	}

	rank := 0
	gjson.GetBytes(resp.Body(), "coins.#.item.id").ForEach(func(i, v gjson.Result) bool {
		if v.String() == id {
			rank = int(i.Int()) + 1
			return false
		}
		return true
	})
	return rank, nil
}

func (c *CatalystClient) sentiment(ctx context.Context, id string) (float64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetQueryParams(map[string]string{
			"localization":   "false",
			"tickers":        "false",
			"market_data":    "false",
			"community_data": "false",
			"developer_data": "false",
		}).
		Get("/coins/{id}")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("status %d", resp.StatusCode())
	}
	v := gjson.GetBytes(resp.Body(), "sentiment_votes_up_percentage")
	if !v.Exists() || v.Type == gjson.Null {
		return 0, fmt.Errorf("no sentiment votes")
	}
	return v.Float(), nil
}
