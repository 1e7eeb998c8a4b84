// Package dune reads saved query results from Dune Analytics.
package dune

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/agentkit/internal/services/rest"
)

const (
	// DefaultBaseURL is the Dune API root.
	DefaultBaseURL = "https://api.dune.com/api/v1"
	// KeyHeader carries the API key.
	KeyHeader = "X-Dune-API-Key"
	// LendingProtocolsQuery is the saved query listing lending protocols.
	LendingProtocolsQuery = 3509967
)

type resultsResponse struct {
	Result struct {
		Rows []map[string]any `json:"rows"`
	} `json:"result"`
}

// Client queries Dune.
type Client struct {
	rest *rest.Client
}

func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// LatestResults returns the rows of the latest execution of queryID.
func (c *Client) LatestResults(ctx context.Context, queryID int, limit int) ([]map[string]any, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out resultsResponse
	if err := c.rest.Get(ctx, "/query/"+strconv.Itoa(queryID)+"/results", q, &out); err != nil {
		return nil, err
	}
	if out.Result.Rows == nil {
		return []map[string]any{}, nil
	}
	return out.Result.Rows, nil
}

// LendingProtocols returns lending protocol rows, filtered case-insensitively
// by chain when chain is set.
func (c *Client) LendingProtocols(ctx context.Context, chain string) ([]map[string]any, error) {
	rows, err := c.LatestResults(ctx, LendingProtocolsQuery, 0)
	if err != nil {
		return nil, err
	}
	if chain == "" {
		return rows, nil
	}
	filtered := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if c, _ := row["chain"].(string); strings.EqualFold(c, chain) {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}
