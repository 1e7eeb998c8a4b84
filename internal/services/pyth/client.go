// Package pyth reads aggregate prices from the Pyth Hermes REST service.
package pyth

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/agentkit/internal/services/rest"
)

// DefaultBaseURL is the public Hermes endpoint.
const DefaultBaseURL = "https://hermes.pyth.network"

// StatusTrading marks a price that was published.
const StatusTrading = "TRADING"

// Price is the aggregate price of one feed.
type Price struct {
	Status      string  `json:"status"`
	Price       float64 `json:"price"`
	Confidence  float64 `json:"confidence_interval"`
	PublishTime int64   `json:"publish_time"`
}

type latestResponse struct {
	Parsed []struct {
		ID    string `json:"id"`
		Price struct {
			Price       string `json:"price"`
			Conf        string `json:"conf"`
			Expo        int    `json:"expo"`
			PublishTime int64  `json:"publish_time"`
		} `json:"price"`
	} `json:"parsed"`
}

// Client queries Hermes.
type Client struct {
	rest *rest.Client
}

// New wraps a REST client rooted at a Hermes base URL.
func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// LatestPrice returns the latest aggregate price of feedID (hex, with or without 0x).
func (c *Client) LatestPrice(ctx context.Context, feedID string) (Price, error) {
	id := strings.TrimPrefix(strings.ToLower(feedID), "0x")
	if id == "" {
		return Price{}, fmt.Errorf("empty feed id")
	}

	var out latestResponse
	q := url.Values{"ids[]": {id}, "parsed": {"true"}}
	if err := c.rest.Get(ctx, "/v2/updates/price/latest", q, &out); err != nil {
		return Price{}, err
	}
	if len(out.Parsed) == 0 {
		return Price{}, fmt.Errorf("no price published for feed %s", feedID)
	}

	p := out.Parsed[0].Price
	price, err := scale(p.Price, p.Expo)
	if err != nil {
		return Price{}, fmt.Errorf("price: %w", err)
	}
	conf, err := scale(p.Conf, p.Expo)
	if err != nil {
		return Price{}, fmt.Errorf("confidence: %w", err)
	}
	return Price{Status: StatusTrading, Price: price, Confidence: conf, PublishTime: p.PublishTime}, nil
}

func scale(mantissa string, expo int) (float64, error) {
	n, err := strconv.ParseInt(mantissa, 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(n) * math.Pow10(expo), nil
}
