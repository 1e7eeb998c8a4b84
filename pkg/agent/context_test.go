package agent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gosolana "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentkit/internal/services/solana"
	"github.com/aretw0/agentkit/pkg/domain"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{
		Pyth:    ServiceConfig{BaseURL: "not a url"},
		Timeout: -time.Second,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "pyth.base_url")
	assert.ErrorContains(t, err, "timeout must not be negative")
}

func TestFundingRate_NoCaching(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"symbol":"SOL_USDC_PERP","fundingRate":"0.0001"}]`))
	}))
	defer srv.Close()

	ac, err := New(Config{Backpack: ServiceConfig{BaseURL: srv.URL}})
	require.NoError(t, err)

	first, err := ac.FundingRate(context.Background(), "SOL-PERP")
	require.NoError(t, err)
	second, err := ac.FundingRate(context.Background(), "SOL-PERP")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), hits.Load())
}

func TestMissingCredentials(t *testing.T) {
	ac, err := New(Config{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ac.StorkPrice(ctx, "BTCUSD")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = ac.LendingProtocols(ctx, "solana")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = ac.CreateWallet(ctx)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = ac.EVMBalance(ctx, "0x000000000000000000000000000000000000dEaD")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = ac.StakeWithJup(ctx, 1)
	assert.ErrorIs(t, err, solana.ErrNoSigner)

	_, err = ac.Balance(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestWalletAddress(t *testing.T) {
	owner := gosolana.NewWallet().PublicKey()

	ac, err := New(Config{Solana: SolanaConfig{WalletAddress: owner.String()}})
	require.NoError(t, err)
	assert.Equal(t, owner.String(), ac.WalletAddress())
	assert.False(t, ac.CanSign())

	key := gosolana.NewWallet().PrivateKey
	signer, err := New(Config{Solana: SolanaConfig{PrivateKey: key.String()}})
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), signer.WalletAddress())
	assert.True(t, signer.CanSign())

	bad, err := New(Config{Solana: SolanaConfig{PrivateKey: "not-base58!"}})
	require.NoError(t, err)
	assert.Empty(t, bad.WalletAddress())
	_, err = bad.TPS(context.Background())
	assert.ErrorContains(t, err, "solana private key")
}

func TestStorkPrice_SendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Basic tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"SOLUSD":{"price":"150000000000000000000","timestamp":1}}}`))
	}))
	defer srv.Close()

	ac, err := New(Config{Stork: ServiceConfig{BaseURL: srv.URL, APIKey: "tok"}})
	require.NoError(t, err)

	p, err := ac.StorkPrice(context.Background(), "solusd")
	require.NoError(t, err)
	assert.InDelta(t, 150.0, p.Price, 1e-9)
}

func TestCoinGecko_KeySelection(t *testing.T) {
	var header atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get("x-cg-pro-api-key"))
		_, _ = w.Write([]byte(`{"coins":[]}`))
	}))
	defer srv.Close()

	ac, err := New(Config{CoinGecko: CoinGeckoConfig{BaseURL: srv.URL, APIKey: "pro"}})
	require.NoError(t, err)
	_, err = ac.TrendingTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pro", header.Load())
}

func TestUpstreamErrorsKeepService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ac, err := New(Config{RugCheck: ServiceConfig{BaseURL: srv.URL}})
	require.NoError(t, err)

	_, err = ac.TokenReport(context.Background(), "Mint")
	var up *domain.UpstreamError
	require.True(t, errors.As(err, &up))
	assert.Equal(t, "rugcheck", up.Service)
	assert.Equal(t, http.StatusServiceUnavailable, up.Status)
}

func TestExplorerURL(t *testing.T) {
	assert.Equal(t, "https://solscan.io/tx/abc", ExplorerURL("abc"))
}

func TestConfig_Secrets(t *testing.T) {
	cfg := Config{
		Solana:    SolanaConfig{PrivateKey: "pk", RPCURL: "https://rpc.example.com"},
		CoinGecko: CoinGeckoConfig{DemoAPIKey: "demo"},
		Privy:     PrivyConfig{AppID: "app", AppSecret: "shh"},
	}
	assert.Equal(t, []string{"pk", "demo", "shh"}, cfg.Secrets())
	assert.Empty(t, Config{}.Secrets())
}
