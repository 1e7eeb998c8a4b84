// Package stork reads asset prices from the Stork oracle REST API.
package stork

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/aretw0/agentkit/internal/services/rest"
)

// DefaultBaseURL is the Stork REST endpoint.
const DefaultBaseURL = "https://rest.jp.stork-oracle.network"

// priceScale is the fixed-point scale of Stork quantized prices.
var priceScale = new(big.Float).SetFloat64(1e18)

// Price is the latest price of an asset.
type Price struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

type latestResponse struct {
	Data map[string]struct {
		Price     string `json:"price"`
		Timestamp int64  `json:"timestamp"`
	} `json:"data"`
}

// Client queries Stork. The REST client must carry the API token.
type Client struct {
	rest *rest.Client
}

// New wraps a REST client configured with Basic token auth.
func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// LatestPrice returns the latest price of assetID (e.g. BTCUSD).
func (c *Client) LatestPrice(ctx context.Context, assetID string) (Price, error) {
	asset := strings.ToUpper(strings.TrimSpace(assetID))
	if asset == "" {
		return Price{}, fmt.Errorf("empty asset id")
	}

	var out latestResponse
	if err := c.rest.Get(ctx, "/v1/prices/latest", url.Values{"assets": {asset}}, &out); err != nil {
		return Price{}, err
	}
	entry, ok := out.Data[asset]
	if !ok {
		return Price{}, fmt.Errorf("no data found for asset %s", asset)
	}

	raw, ok := new(big.Float).SetString(entry.Price)
	if !ok {
		return Price{}, fmt.Errorf("invalid price %q", entry.Price)
	}
	price, _ := raw.Quo(raw, priceScale).Float64()
	return Price{Price: price, Timestamp: entry.Timestamp}, nil
}
