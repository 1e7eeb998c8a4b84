// Package backpack reads public market data from the Backpack exchange.
package backpack

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/agentkit/internal/services/rest"
)

// DefaultBaseURL is the Backpack API root.
const DefaultBaseURL = "https://api.backpack.exchange"

// Client queries Backpack.
type Client struct {
	rest *rest.Client
}

func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// MarketSymbol maps host-friendly perp names onto Backpack market symbols:
// SOL-PERP becomes SOL_USDC_PERP. Native symbols pass through.
func MarketSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if base, ok := strings.CutSuffix(s, "-PERP"); ok {
		return base + "_USDC_PERP"
	}
	return s
}

// FundingRate returns the most recent funding rate record of a perp market.
func (c *Client) FundingRate(ctx context.Context, symbol string) (map[string]any, error) {
	market := MarketSymbol(symbol)
	if market == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	var out []map[string]any
	q := url.Values{"symbol": {market}, "limit": {"1"}}
	if err := c.rest.Get(ctx, "/api/v1/fundingRates", q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no funding rate for %s", market)
	}
	return out[0], nil
}
