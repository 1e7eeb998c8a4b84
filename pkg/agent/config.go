package agent

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultHTTPTimeout bounds one upstream HTTP exchange.
const DefaultHTTPTimeout = 30 * time.Second

// Config holds connection and credential settings for every upstream.
// Empty base URLs fall back to each service's public endpoint.
type Config struct {
	Solana    SolanaConfig         `yaml:"solana" json:"solana"`
	EVM       EVMConfig            `yaml:"evm" json:"evm"`
	Pyth      ServiceConfig        `yaml:"pyth" json:"pyth"`
	Stork     ServiceConfig        `yaml:"stork" json:"stork"`
	RugCheck  ServiceConfig        `yaml:"rugcheck" json:"rugcheck"`
	CoinGecko CoinGeckoConfig      `yaml:"coingecko" json:"coingecko"`
	Dune      ServiceConfig        `yaml:"dune" json:"dune"`
	Privy     PrivyConfig          `yaml:"privy" json:"privy"`
	Jupiter   ServiceConfig        `yaml:"jupiter" json:"jupiter"`
	Backpack  ServiceConfig        `yaml:"backpack" json:"backpack"`
	Timeout   time.Duration        `yaml:"timeout" json:"timeout"`
	Limits    map[string]RateLimit `yaml:"rate_limits" json:"rate_limits"`
}

type SolanaConfig struct {
	RPCURL        string `yaml:"rpc_url" json:"rpc_url"`
	PrivateKey    string `yaml:"private_key" json:"-"`
	WalletAddress string `yaml:"wallet_address" json:"wallet_address"`
}

type EVMConfig struct {
	RPCURL string `yaml:"rpc_url" json:"rpc_url"`
}

// ServiceConfig is the common shape of a keyed REST upstream.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	APIKey  string `yaml:"api_key" json:"-"`
}

type CoinGeckoConfig struct {
	BaseURL    string `yaml:"base_url" json:"base_url"`
	APIKey     string `yaml:"api_key" json:"-"`
	DemoAPIKey string `yaml:"demo_api_key" json:"-"`
}

type PrivyConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	AppID     string `yaml:"app_id" json:"app_id"`
	AppSecret string `yaml:"app_secret" json:"-"`
}

// RateLimit throttles one service. RPS <= 0 means unlimited.
type RateLimit struct {
	RPS   float64 `yaml:"rps" json:"rps"`
	Burst int     `yaml:"burst" json:"burst"`
}

// Validate reports settings that can never work. Missing credentials are not
// errors: the actions that need them fail individually.
func (c Config) Validate() error {
	var errs []error
	urls := map[string]string{
		"solana.rpc_url":     c.Solana.RPCURL,
		"evm.rpc_url":        c.EVM.RPCURL,
		"pyth.base_url":      c.Pyth.BaseURL,
		"stork.base_url":     c.Stork.BaseURL,
		"rugcheck.base_url":  c.RugCheck.BaseURL,
		"coingecko.base_url": c.CoinGecko.BaseURL,
		"dune.base_url":      c.Dune.BaseURL,
		"privy.base_url":     c.Privy.BaseURL,
		"jupiter.base_url":   c.Jupiter.BaseURL,
		"backpack.base_url":  c.Backpack.BaseURL,
	}
	for key, raw := range urls {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s: invalid url %q", key, raw))
		}
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative"))
	}
	for name, l := range c.Limits {
		if l.Burst < 0 {
			errs = append(errs, fmt.Errorf("rate_limits.%s: burst must not be negative", name))
		}
	}
	return errors.Join(errs...)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Secrets returns every configured credential, for redaction.
func (c Config) Secrets() []string {
	var out []string
	for _, s := range []string{
		c.Solana.PrivateKey,
		c.Stork.APIKey,
		c.CoinGecko.APIKey,
		c.CoinGecko.DemoAPIKey,
		c.Dune.APIKey,
		c.Privy.AppSecret,
	} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
