// Package evm reads native balances from an EVM chain through go-ethereum.
package evm

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/aretw0/agentkit/pkg/domain"
)

// Balance is a native-token balance at the latest block.
type Balance struct {
	Address string `json:"address"`
	Wei     string `json:"wei"`
	Ether   string `json:"balance"`
	ChainID string `json:"chain_id"`
}

type dialFunc func(ctx context.Context, endpoint string) (*ethclient.Client, error)

// Client dials the RPC endpoint on first use and keeps the connection.
// A failed dial is not cached; the next call dials again.
type Client struct {
	endpoint string
	dialer   dialFunc

	mu   sync.Mutex
	conn *ethclient.Client
}

// New creates a client for endpoint. Nothing is dialed until the first call.
func New(endpoint string) *Client {
	return &Client{endpoint: endpoint, dialer: ethclient.DialContext}
}

func (c *Client) dial(ctx context.Context) (*ethclient.Client, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("evm rpc url: %w", domain.ErrNotConfigured)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}
	// ctx bounds connection setup only.
	conn, err := c.dialer(ctx, c.endpoint)
	if err != nil {
		return nil, &domain.UpstreamError{Service: "evm", Op: "dial", Err: err}
	}
	c.conn = conn
	return conn, nil
}

// Balance returns the native balance of address.
func (c *Client) Balance(ctx context.Context, address string) (Balance, error) {
	if !common.IsHexAddress(address) {
		return Balance{}, fmt.Errorf("invalid EVM address: %s", address)
	}
	conn, err := c.dial(ctx)
	if err != nil {
		return Balance{}, err
	}

	account := common.HexToAddress(address)
	wei, err := conn.BalanceAt(ctx, account, nil)
	if err != nil {
		return Balance{}, &domain.UpstreamError{Service: "evm", Op: "eth_getBalance", Err: err}
	}
	chainID, err := conn.ChainID(ctx)
	if err != nil {
		return Balance{}, &domain.UpstreamError{Service: "evm", Op: "eth_chainId", Err: err}
	}

	return Balance{
		Address: account.Hex(),
		Wei:     wei.String(),
		Ether:   FormatEther(wei),
		ChainID: chainID.String(),
	}, nil
}

// Close releases the connection if one was dialed.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// FormatEther renders wei as a decimal ether string without trailing zeros.
func FormatEther(wei *big.Int) string {
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, big.NewFloat(1e18))
	return f.Text('f', -1)
}
