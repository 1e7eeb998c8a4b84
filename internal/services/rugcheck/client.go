// Package rugcheck fetches token risk reports from RugCheck.
package rugcheck

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aretw0/agentkit/internal/services/rest"
)

// DefaultBaseURL is the RugCheck API root.
const DefaultBaseURL = "https://api.rugcheck.xyz/v1"

// Client queries RugCheck.
type Client struct {
	rest *rest.Client
}

func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// Summary returns the report summary of a token mint as sent by RugCheck.
func (c *Client) Summary(ctx context.Context, mint string) (map[string]any, error) {
	if mint == "" {
		return nil, fmt.Errorf("empty mint")
	}
	var out map[string]any
	if err := c.rest.Get(ctx, "/tokens/"+url.PathEscape(mint)+"/report/summary", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
