// Package jupiter fetches unsigned jupSOL stake transactions from the Jupiter blink worker.
package jupiter

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/aretw0/agentkit/internal/services/rest"
)

const (
	// DefaultBaseURL is the Jupiter blink worker.
	DefaultBaseURL = "https://worker.jup.ag"

	SOLMint    = "So11111111111111111111111111111111111111112"
	JupSOLMint = "jupSoLaHXQiZZTSfEWMTRRgpnyFm8f6sZdosWBjx93v"
)

// Client calls the blink worker.
type Client struct {
	rest *rest.Client
}

func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// StakeTransaction returns the serialized transaction swapping amount SOL
// into jupSOL for account. The transaction is unsigned.
func (c *Client) StakeTransaction(ctx context.Context, account string, amount float64) ([]byte, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	path := "/blinks/swap/" + SOLMint + "/" + JupSOLMint + "/" + strconv.FormatFloat(amount, 'f', -1, 64)

	var out struct {
		Transaction string `json:"transaction"`
	}
	if err := c.rest.Post(ctx, path, map[string]any{"account": account}, &out); err != nil {
		return nil, err
	}
	if out.Transaction == "" {
		return nil, fmt.Errorf("jupiter returned no transaction")
	}
	raw, err := base64.StdEncoding.DecodeString(out.Transaction)
	if err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return raw, nil
}
