// Package catalog binds every named action to a tool adapter over the agent
// context.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/agentkit/pkg/agent"
	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/registry"
	"github.com/aretw0/agentkit/pkg/tool"
)

// Defaults fill optional inputs the caller leaves out.
var Defaults = map[domain.ActionName]map[string]any{
	domain.ActionRequestFaucetFunds: {"amount": 1.0},
	domain.ActionTokenPrice:         {"vs_currency": "usd"},
}

// Descriptors returns one descriptor per action, in declaration order.
func Descriptors(ac *agent.Context) ([]registry.Descriptor, error) {
	builders := []func(*agent.Context) (registry.Descriptor, error){
		getBalance,
		transfer,
		getTPS,
		requestFaucetFunds,
		stakeWithJup,
		pythFetchPrice,
		storkGetPrice,
		rugcheckReport,
		tokenPrice,
		trendingTokens,
		lendingProtocols,
		createWallet,
		listWallets,
		signMessage,
		evmGetBalance,
		fundingRate,
	}
	out := make([]registry.Descriptor, 0, len(builders))
	for _, build := range builders {
		d, err := build(ac)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Registry builds a registry over the catalog plus extra descriptors,
// narrowed to names when any are given.
func Registry(ac *agent.Context, extra []registry.Descriptor, names ...string) (*registry.Registry, error) {
	ds, err := Descriptors(ac)
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(append(ds, extra...)...)
	if err != nil {
		return nil, err
	}
	return reg.Select(names...)
}

func describe[In any](spec tool.Spec, call tool.Func[In]) (registry.Descriptor, error) {
	spec.Defaults = Defaults[spec.Name]
	a, err := tool.New(spec, call)
	if err != nil {
		return registry.Descriptor{}, err
	}
	return a.Descriptor(), nil
}

func getBalance(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionGetBalance,
		Description: `Fetches the SOL or SPL token balance of the agent wallet.
Input: {"token_address": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"} (optional)
Output: {"balance": 12.5, "message": "Success"}`,
		Result:      []string{"balance"},
		ErrorPrefix: "Error fetching balance",
	}, func(ctx context.Context, in balanceInput) (any, error) {
		return ac.Balance(ctx, in.TokenAddress)
	})
}

func transfer(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionTransfer,
		Description: `Transfers SOL or an SPL token from the agent wallet.
Input: {"to": "<address>", "amount": 0.1, "mint": "<mint>"} (mint optional)
Output: {"transaction": "<signature>", "message": "Success"}`,
		Result:      []string{"transaction"},
		ErrorPrefix: "Error transferring tokens",
		Mutating:    true,
	}, func(ctx context.Context, in transferInput) (any, error) {
		return ac.Transfer(ctx, in.To, in.Amount, in.Mint)
	})
}

func getTPS(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionGetTPS,
		Description: `Returns the current Solana transactions per second.
Input: {}
Output: {"tps": 2875.4, "message": "Success"}`,
		Result:      []string{"tps"},
		ErrorPrefix: "Error fetching TPS",
	}, func(ctx context.Context, _ noInput) (any, error) {
		return ac.TPS(ctx)
	})
}

func requestFaucetFunds(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionRequestFaucetFunds,
		Description: `Requests an airdrop of SOL to the agent wallet (devnet and testnet).
Input: {"amount": 1}
Output: {"transaction": "<signature>", "message": "Success"}`,
		Result:      []string{"transaction"},
		ErrorPrefix: "Error requesting faucet funds",
		Mutating:    true,
	}, func(ctx context.Context, in faucetInput) (any, error) {
		return ac.RequestFaucetFunds(ctx, in.Amount)
	})
}

func stakeWithJup(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionStakeWithJup,
		Description: `Stakes SOL into jupSOL through Jupiter.
Input: {"amount": 0.5}
Output: {"transaction": "<signature>", "explorer": "https://solscan.io/tx/<signature>", "message": "Success"}`,
		Result:      []string{"transaction", "explorer"},
		ErrorPrefix: "Error staking with Jupiter",
		Mutating:    true,
	}, func(ctx context.Context, in stakeInput) (any, error) {
		sig, err := ac.StakeWithJup(ctx, in.Amount)
		if err != nil {
			return nil, err
		}
		return map[string]any{"transaction": sig, "explorer": agent.ExplorerURL(sig)}, nil
	})
}

func pythFetchPrice(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionPythFetchPrice,
		Description: `Fetches the latest aggregate price of a Pyth feed.
Input: {"price_feed_id": "0xef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d"}
Output: {"status": "TRADING", "price": 150.25, "confidence_interval": 0.02, "message": "Success"}`,
		Result:      []string{"status", "price", "confidence_interval"},
		ErrorPrefix: "Error fetching price from Pyth",
	}, func(ctx context.Context, in pythInput) (any, error) {
		p, err := ac.PythPrice(ctx, in.PriceFeedID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"status": p.Status, "price": p.Price, "confidence_interval": p.Confidence}, nil
	})
}

func storkGetPrice(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionStorkGetPrice,
		Description: `Fetches the latest Stork oracle price of an asset.
Input: {"asset_id": "BTCUSD"}
Output: {"price": 65000.5, "timestamp": 1700000000000, "message": "Success"}`,
		Result:      []string{"price", "timestamp"},
		ErrorPrefix: "Error fetching price from Stork",
	}, func(ctx context.Context, in storkInput) (any, error) {
		p, err := ac.StorkPrice(ctx, in.AssetID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"price": p.Price, "timestamp": p.Timestamp}, nil
	})
}

func rugcheckReport(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionRugcheckReport,
		Description: `Fetches the RugCheck risk summary of a token.
Input: {"mint": "<mint>"}
Output: {"report": {"score": 101, "risks": []}, "message": "Success"}`,
		Result:      []string{"report"},
		ErrorPrefix: "Error fetching token report",
	}, func(ctx context.Context, in rugcheckInput) (any, error) {
		return ac.TokenReport(ctx, in.Mint)
	})
}

func tokenPrice(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionTokenPrice,
		Description: `Fetches CoinGecko price data of Solana tokens.
Input: {"token_addresses": ["<mint>", "<mint>"], "vs_currency": "usd"}
Output: {"price_data": {"<mint>": {"usd": 1.0}}, "message": "Success"}`,
		Result:      []string{"price_data"},
		ErrorPrefix: "Error fetching token price data",
	}, func(ctx context.Context, in tokenPriceInput) (any, error) {
		mints, err := addressList(in.TokenAddresses)
		if err != nil {
			return nil, err
		}
		return ac.TokenPrice(ctx, mints, in.VsCurrency)
	})
}

func trendingTokens(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionTrendingTokens,
		Description: `Fetches the tokens trending on CoinGecko.
Input: {}
Output: {"trending_tokens": {"coins": [...]}, "message": "Success"}`,
		Result:      []string{"trending_tokens"},
		ErrorPrefix: "Error fetching trending tokens",
	}, func(ctx context.Context, _ noInput) (any, error) {
		return ac.TrendingTokens(ctx)
	})
}

func lendingProtocols(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionLendingProtocols,
		Description: `Lists lending protocols tracked on Dune.
Input: {"chain": "solana"} (optional)
Output: {"protocols": [{"project": "kamino", "chain": "solana"}], "message": "Success"}`,
		Result:      []string{"protocols"},
		ErrorPrefix: "Error fetching lending protocols",
	}, func(ctx context.Context, in lendingInput) (any, error) {
		return ac.LendingProtocols(ctx, in.Chain)
	})
}

func createWallet(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionCreateWallet,
		Description: `Creates a custodial Solana wallet through Privy.
Input: {}
Output: {"wallet_id": "<id>", "address": "<address>", "message": "Success"}`,
		Result:      []string{"wallet_id", "address"},
		ErrorPrefix: "Error creating wallet",
		Coded:       true,
		Mutating:    true,
	}, func(ctx context.Context, _ noInput) (any, error) {
		w, err := ac.CreateWallet(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"wallet_id": w.ID, "address": w.Address}, nil
	})
}

func listWallets(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionListWallets,
		Description: `Lists custodial wallets held in Privy.
Input: {"cursor": "<cursor>"} (optional)
Output: {"wallets": [{"id": "<id>", "address": "<address>"}], "next_cursor": "", "message": "Success"}`,
		Result:      []string{"wallets", "next_cursor"},
		ErrorPrefix: "Error listing wallets",
		Coded:       true,
	}, func(ctx context.Context, in listWalletsInput) (any, error) {
		ws, next, err := ac.ListWallets(ctx, in.Cursor)
		if err != nil {
			return nil, err
		}
		return map[string]any{"wallets": ws, "next_cursor": next}, nil
	})
}

func signMessage(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionSignMessage,
		Description: `Signs a message with a custodial Privy wallet.
Input: {"wallet_id": "<id>", "message": "hello"}
Output: {"signature": "<base64>", "message": "Success"}`,
		Result:      []string{"signature"},
		ErrorPrefix: "Error signing message",
		Coded:       true,
		Mutating:    true,
	}, func(ctx context.Context, in signMessageInput) (any, error) {
		return ac.SignMessage(ctx, in.WalletID, in.Message)
	})
}

func evmGetBalance(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionEVMGetBalance,
		Description: `Fetches the native balance of an EVM account.
Input: {"address": "0x000000000000000000000000000000000000dEaD"}
Output: {"balance": {"address": "0x...", "wei": "2000000000000000000", "balance": "2", "chain_id": "1"}, "message": "Success"}`,
		Result:      []string{"balance"},
		ErrorPrefix: "Error fetching EVM balance",
	}, func(ctx context.Context, in evmBalanceInput) (any, error) {
		return ac.EVMBalance(ctx, in.Address)
	})
}

func fundingRate(ac *agent.Context) (registry.Descriptor, error) {
	return describe(tool.Spec{
		Name: domain.ActionGetFundingRate,
		Description: `Fetches the latest funding rate of a perp market on Backpack.
Input: {"symbol": "SOL-PERP"}
Output: {"funding_rate": {"symbol": "SOL_USDC_PERP", "fundingRate": "0.0001"}, "message": "Success"}`,
		Result:      []string{"funding_rate"},
		ErrorPrefix: "Error fetching funding rate",
	}, func(ctx context.Context, in fundingRateInput) (any, error) {
		return ac.FundingRate(ctx, in.Symbol)
	})
}

// addressList accepts a list of strings or one comma separated string.
func addressList(v any) ([]string, error) {
	var out []string
	switch t := v.(type) {
	case string:
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("token_addresses[%d]: expected string, got %T", i, e)
			}
			out = append(out, s)
		}
	case []string:
		out = t
	default:
		return nil, fmt.Errorf("token_addresses: expected string or list, got %T", v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("token_addresses: empty")
	}
	return out, nil
}
