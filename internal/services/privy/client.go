// Package privy talks to the Privy server-wallet custody API.
package privy

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/aretw0/agentkit/internal/services/rest"
)

const (
	// DefaultBaseURL is the Privy API root.
	DefaultBaseURL = "https://api.privy.io"
	// AppIDHeader carries the application id next to Basic auth.
	AppIDHeader = "privy-app-id"
	// SolanaMainnet is the CAIP-2 id of Solana mainnet-beta.
	SolanaMainnet = "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"
)

// Wallet is a custodial wallet.
type Wallet struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	ChainType string `json:"chain_type"`
}

type rpcRequest struct {
	Method    string         `json:"method"`
	CAIP2     string         `json:"caip2,omitempty"`
	ChainType string         `json:"chain_type"`
	Params    map[string]any `json:"params"`
}

// Client calls Privy. The REST client must carry Basic app credentials and the app id header.
type Client struct {
	rest *rest.Client
}

func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// CreateWallet creates a new Solana wallet.
func (c *Client) CreateWallet(ctx context.Context) (Wallet, error) {
	var out Wallet
	if err := c.rest.Post(ctx, "/v1/wallets", map[string]any{"chain_type": "solana"}, &out); err != nil {
		return Wallet{}, err
	}
	return out, nil
}

// ListWallets returns one page of wallets. cursor is empty for the first page.
func (c *Client) ListWallets(ctx context.Context, cursor string) ([]Wallet, string, error) {
	q := url.Values{"chain_type": {"solana"}}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var out struct {
		Data       []Wallet `json:"data"`
		NextCursor string   `json:"next_cursor"`
	}
	if err := c.rest.Get(ctx, "/v1/wallets", q, &out); err != nil {
		return nil, "", err
	}
	if out.Data == nil {
		out.Data = []Wallet{}
	}
	return out.Data, out.NextCursor, nil
}

// SignMessage signs a UTF-8 message with a custodial wallet and returns the signature.
func (c *Client) SignMessage(ctx context.Context, walletID, message string) (string, error) {
	if walletID == "" {
		return "", fmt.Errorf("empty wallet id")
	}
	req := rpcRequest{
		Method:    "signMessage",
		ChainType: "solana",
		Params: map[string]any{
			"message":  base64.StdEncoding.EncodeToString([]byte(message)),
			"encoding": "base64",
		},
	}
	var out struct {
		Data struct {
			Signature string `json:"signature"`
		} `json:"data"`
	}
	if err := c.rest.Post(ctx, "/v1/wallets/"+url.PathEscape(walletID)+"/rpc", req, &out); err != nil {
		return "", err
	}
	return out.Data.Signature, nil
}
