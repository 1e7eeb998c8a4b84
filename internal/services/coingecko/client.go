// Package coingecko reads token prices and trending searches from CoinGecko.
package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/agentkit/internal/services/rest"
)

const (
	// PublicBaseURL serves demo and keyless requests.
	PublicBaseURL = "https://api.coingecko.com/api/v3"
	// ProBaseURL serves requests carrying a pro API key.
	ProBaseURL = "https://pro-api.coingecko.com/api/v3"

	// ProKeyHeader carries a pro API key.
	ProKeyHeader = "x-cg-pro-api-key"
	// DemoKeyHeader carries a demo API key.
	DemoKeyHeader = "x-cg-demo-api-key"
)

// Client queries CoinGecko.
type Client struct {
	rest *rest.Client
}

func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// TokenPrice returns price data of Solana token mints keyed by mint.
func (c *Client) TokenPrice(ctx context.Context, mints []string, vsCurrency string) (map[string]any, error) {
	if len(mints) == 0 {
		return nil, fmt.Errorf("no token addresses")
	}
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	q := url.Values{
		"contract_addresses":      {strings.Join(mints, ",")},
		"vs_currencies":           {vsCurrency},
		"include_market_cap":      {"true"},
		"include_24hr_vol":        {"true"},
		"include_24hr_change":     {"true"},
		"include_last_updated_at": {"true"},
	}
	var out map[string]any
	if err := c.rest.Get(ctx, "/simple/token_price/solana", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Trending returns the trending search result.
func (c *Client) Trending(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.rest.Get(ctx, "/search/trending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
