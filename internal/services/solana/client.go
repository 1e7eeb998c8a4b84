// Package solana wraps the solana-go RPC client with the handful of
// operations the catalog exposes.
package solana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/aretw0/agentkit/pkg/domain"
)

// DefaultEndpoint is the public RPC endpoint for Solana mainnet-beta.
const DefaultEndpoint = rpc.MainNetBeta_RPC

// ExplorerURL is the transaction explorer prefix used in results.
const ExplorerURL = "https://solscan.io/tx/"

// ErrNoSigner is returned by operations that need the agent's private key.
var ErrNoSigner = fmt.Errorf("solana signing key: %w", domain.ErrNotConfigured)

// Client performs Solana RPC operations on behalf of one wallet.
type Client struct {
	rpc    *rpc.Client
	signer *solana.PrivateKey
	owner  solana.PublicKey
	logger *slog.Logger
}

// New creates a client. key may be nil for read-only use; owner is then the
// zero key unless set through WithOwner.
func New(endpoint string, key *solana.PrivateKey, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{rpc: rpc.New(endpoint), signer: key, logger: logger}
	if key != nil {
		c.owner = key.PublicKey()
	}
	return c
}

// WithOwner overrides the wallet used for reads when no signing key is set.
func (c *Client) WithOwner(pk solana.PublicKey) *Client {
	if c.signer == nil {
		c.owner = pk
	}
	return c
}

// Owner returns the agent wallet address.
func (c *Client) Owner() solana.PublicKey { return c.owner }

// ParseKey parses a base58 private key.
func ParseKey(s string) (solana.PrivateKey, error) {
	return solana.PrivateKeyFromBase58(s)
}

// ParseAddress parses a base58 public key.
func ParseAddress(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return pk, nil
}

// Balance returns the UI balance of the agent wallet: SOL when mint is nil,
// otherwise the SPL token held in the wallet's associated token account.
func (c *Client) Balance(ctx context.Context, mint *solana.PublicKey) (float64, error) {
	if c.owner.IsZero() {
		return 0, fmt.Errorf("wallet address: %w", domain.ErrNotConfigured)
	}
	if mint == nil {
		out, err := c.rpc.GetBalance(ctx, c.owner, rpc.CommitmentConfirmed)
		if err != nil {
			return 0, c.fail("getBalance", err)
		}
		return lamportsToSOL(out.Value), nil
	}

	ata, _, err := solana.FindAssociatedTokenAddress(c.owner, *mint)
	if err != nil {
		return 0, fmt.Errorf("derive token account: %w", err)
	}
	out, err := c.rpc.GetTokenAccountBalance(ctx, ata, rpc.CommitmentConfirmed)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return 0, nil
		}
		return 0, c.fail("getTokenAccountBalance", err)
	}
	if out.Value == nil {
		return 0, nil
	}
	return strconv.ParseFloat(out.Value.UiAmountString, 64)
}

// Transfer sends amount SOL, or amount of an SPL token when mint is set, to
// recipient. The destination token account is created when missing.
func (c *Client) Transfer(ctx context.Context, to solana.PublicKey, amount float64, mint *solana.PublicKey) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}
	if amount <= 0 {
		return solana.Signature{}, fmt.Errorf("amount must be positive")
	}

	var ixs []solana.Instruction
	if mint == nil {
		ixs = append(ixs, system.NewTransferInstruction(solToLamports(amount), c.owner, to).Build())
	} else {
		splIxs, err := c.splTransfer(ctx, to, amount, *mint)
		if err != nil {
			return solana.Signature{}, err
		}
		ixs = append(ixs, splIxs...)
	}
	return c.send(ctx, ixs)
}

func (c *Client) splTransfer(ctx context.Context, to solana.PublicKey, amount float64, mint solana.PublicKey) ([]solana.Instruction, error) {
	supply, err := c.rpc.GetTokenSupply(ctx, mint, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, c.fail("getTokenSupply", err)
	}
	decimals := supply.Value.Decimals

	from, _, err := solana.FindAssociatedTokenAddress(c.owner, mint)
	if err != nil {
		return nil, fmt.Errorf("derive source account: %w", err)
	}
	dest, _, err := solana.FindAssociatedTokenAddress(to, mint)
	if err != nil {
		return nil, fmt.Errorf("derive destination account: %w", err)
	}

	var ixs []solana.Instruction
	if _, err := c.rpc.GetAccountInfo(ctx, dest); err != nil {
		if !errors.Is(err, rpc.ErrNotFound) {
			return nil, c.fail("getAccountInfo", err)
		}
		ixs = append(ixs, associatedtokenaccount.NewCreateInstruction(c.owner, to, mint).Build())
	}

	units := uint64(math.Round(amount * math.Pow10(int(decimals))))
	ixs = append(ixs, token.NewTransferCheckedInstruction(units, decimals, from, mint, dest, c.owner, nil).Build())
	return ixs, nil
}

// TPS returns the transactions per second of the most recent performance sample.
func (c *Client) TPS(ctx context.Context) (float64, error) {
	limit := uint(1)
	samples, err := c.rpc.GetRecentPerformanceSamples(ctx, &limit)
	if err != nil {
		return 0, c.fail("getRecentPerformanceSamples", err)
	}
	if len(samples) == 0 || samples[0].SamplePeriodSecs == 0 {
		return 0, fmt.Errorf("no performance samples available")
	}
	return float64(samples[0].NumTransactions) / float64(samples[0].SamplePeriodSecs), nil
}

// RequestAirdrop asks the cluster faucet for SOL. Only devnet and testnet honour it.
func (c *Client) RequestAirdrop(ctx context.Context, amount float64) (solana.Signature, error) {
	if c.owner.IsZero() {
		return solana.Signature{}, fmt.Errorf("wallet address: %w", domain.ErrNotConfigured)
	}
	sig, err := c.rpc.RequestAirdrop(ctx, c.owner, solToLamports(amount), rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Signature{}, c.fail("requestAirdrop", err)
	}
	return sig, nil
}

// SignAndSend decodes a serialized transaction built by a third party,
// signs it with the agent key and submits it.
func (c *Client) SignAndSend(ctx context.Context, raw []byte) (solana.Signature, error) {
	if c.signer == nil {
		return solana.Signature{}, ErrNoSigner
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("decode transaction: %w", err)
	}
	tx.Signatures = nil
	if _, err := tx.Sign(c.keyGetter); err != nil {
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}
	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, c.fail("sendTransaction", err)
	}
	c.logger.Debug("transaction sent", "signature", sig.String())
	return sig, nil
}

func (c *Client) send(ctx context.Context, ixs []solana.Instruction) (solana.Signature, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, c.fail("getLatestBlockhash", err)
	}
	tx, err := solana.NewTransaction(ixs, recent.Value.Blockhash, solana.TransactionPayer(c.owner))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build transaction: %w", err)
	}
	if _, err := tx.Sign(c.keyGetter); err != nil {
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}
	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, c.fail("sendTransaction", err)
	}
	c.logger.Debug("transaction sent", "signature", sig.String())
	return sig, nil
}

func (c *Client) keyGetter(key solana.PublicKey) *solana.PrivateKey {
	if c.signer != nil && key.Equals(c.owner) {
		return c.signer
	}
	return nil
}

func (c *Client) fail(op string, err error) error {
	return &domain.UpstreamError{Service: "solana", Op: op, Err: err}
}

func lamportsToSOL(l uint64) float64 {
	return float64(l) / float64(solana.LAMPORTS_PER_SOL)
}

func solToLamports(sol float64) uint64 {
	return uint64(math.Round(sol * float64(solana.LAMPORTS_PER_SOL)))
}
