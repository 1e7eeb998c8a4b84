package agent

import (
	"context"
	"fmt"

	gosolana "github.com/gagliardetto/solana-go"

	"github.com/aretw0/agentkit/internal/services/solana"
)

// Balance returns the SOL balance of the agent wallet, or the balance of the
// SPL token mint when tokenAddress is set.
func (c *Context) Balance(ctx context.Context, tokenAddress string) (float64, error) {
	cl, err := c.solanaClient()
	if err != nil {
		return 0, err
	}
	mint, err := optionalAddress(tokenAddress)
	if err != nil {
		return 0, err
	}
	return cl.Balance(ctx, mint)
}

// Transfer sends SOL, or an SPL token when mint is set, and returns the
// transaction signature.
func (c *Context) Transfer(ctx context.Context, to string, amount float64, mint string) (string, error) {
	cl, err := c.solanaClient()
	if err != nil {
		return "", err
	}
	recipient, err := solana.ParseAddress(to)
	if err != nil {
		return "", err
	}
	m, err := optionalAddress(mint)
	if err != nil {
		return "", err
	}
	sig, err := cl.Transfer(ctx, recipient, amount, m)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// TPS returns the current network throughput.
func (c *Context) TPS(ctx context.Context) (float64, error) {
	cl, err := c.solanaClient()
	if err != nil {
		return 0, err
	}
	return cl.TPS(ctx)
}

// RequestFaucetFunds airdrops SOL to the agent wallet (devnet and testnet only).
func (c *Context) RequestFaucetFunds(ctx context.Context, amount float64) (string, error) {
	cl, err := c.solanaClient()
	if err != nil {
		return "", err
	}
	sig, err := cl.RequestAirdrop(ctx, amount)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// StakeWithJup swaps amount SOL into jupSOL and returns the signature.
func (c *Context) StakeWithJup(ctx context.Context, amount float64) (string, error) {
	if !c.CanSign() {
		return "", solana.ErrNoSigner
	}
	cl, err := c.solanaClient()
	if err != nil {
		return "", err
	}
	jc, err := c.jupiterClient()
	if err != nil {
		return "", err
	}
	raw, err := jc.StakeTransaction(ctx, cl.Owner().String(), amount)
	if err != nil {
		return "", err
	}
	sig, err := cl.SignAndSend(ctx, raw)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// ExplorerURL returns the explorer link of a transaction signature.
func ExplorerURL(signature string) string {
	return solana.ExplorerURL + signature
}

func (c *Context) PythPrice(ctx context.Context, feedID string) (PythPrice, error) {
	cl, err := c.pythClient()
	if err != nil {
		return PythPrice{}, err
	}
	return cl.LatestPrice(ctx, feedID)
}

func (c *Context) StorkPrice(ctx context.Context, assetID string) (StorkPrice, error) {
	cl, err := c.storkClient()
	if err != nil {
		return StorkPrice{}, err
	}
	return cl.LatestPrice(ctx, assetID)
}

// TokenReport returns the RugCheck summary of a mint.
func (c *Context) TokenReport(ctx context.Context, mint string) (map[string]any, error) {
	cl, err := c.rugcheckClient()
	if err != nil {
		return nil, err
	}
	return cl.Summary(ctx, mint)
}

func (c *Context) TokenPrice(ctx context.Context, mints []string, vsCurrency string) (map[string]any, error) {
	cl, err := c.coingeckoClient()
	if err != nil {
		return nil, err
	}
	return cl.TokenPrice(ctx, mints, vsCurrency)
}

func (c *Context) TrendingTokens(ctx context.Context) (map[string]any, error) {
	cl, err := c.coingeckoClient()
	if err != nil {
		return nil, err
	}
	return cl.Trending(ctx)
}

// LendingProtocols returns Dune lending protocol rows, optionally for one chain.
func (c *Context) LendingProtocols(ctx context.Context, chain string) ([]map[string]any, error) {
	cl, err := c.duneClient()
	if err != nil {
		return nil, err
	}
	return cl.LendingProtocols(ctx, chain)
}

func (c *Context) CreateWallet(ctx context.Context) (Wallet, error) {
	cl, err := c.privyClient()
	if err != nil {
		return Wallet{}, err
	}
	return cl.CreateWallet(ctx)
}

// ListWallets returns one page of custodial wallets and the next cursor.
func (c *Context) ListWallets(ctx context.Context, cursor string) ([]Wallet, string, error) {
	cl, err := c.privyClient()
	if err != nil {
		return nil, "", err
	}
	return cl.ListWallets(ctx, cursor)
}

func (c *Context) SignMessage(ctx context.Context, walletID, message string) (string, error) {
	cl, err := c.privyClient()
	if err != nil {
		return "", err
	}
	return cl.SignMessage(ctx, walletID, message)
}

func (c *Context) EVMBalance(ctx context.Context, address string) (EVMBalance, error) {
	cl, err := c.evmClient()
	if err != nil {
		return EVMBalance{}, err
	}
	return cl.Balance(ctx, address)
}

// FundingRate returns the latest funding record of a perp market.
func (c *Context) FundingRate(ctx context.Context, symbol string) (map[string]any, error) {
	cl, err := c.backpackClient()
	if err != nil {
		return nil, err
	}
	return cl.FundingRate(ctx, symbol)
}

func optionalAddress(s string) (*gosolana.PublicKey, error) {
	if s == "" {
		return nil, nil
	}
	pk, err := solana.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("token address: %w", err)
	}
	return &pk, nil
}
