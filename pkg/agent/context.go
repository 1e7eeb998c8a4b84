// Package agent holds the connection and credential state shared by every
// action handler. A Context is built once at startup and passed explicitly
// to the catalog; handlers only read from it.
package agent

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/agentkit/internal/services/backpack"
	"github.com/aretw0/agentkit/internal/services/coingecko"
	"github.com/aretw0/agentkit/internal/services/dune"
	"github.com/aretw0/agentkit/internal/services/evm"
	"github.com/aretw0/agentkit/internal/services/jupiter"
	"github.com/aretw0/agentkit/internal/services/privy"
	"github.com/aretw0/agentkit/internal/services/pyth"
	"github.com/aretw0/agentkit/internal/services/rest"
	"github.com/aretw0/agentkit/internal/services/rugcheck"
	"github.com/aretw0/agentkit/internal/services/solana"
	"github.com/aretw0/agentkit/internal/services/stork"
	"github.com/aretw0/agentkit/pkg/domain"
)

type (
	PythPrice  = pyth.Price
	StorkPrice = stork.Price
	Wallet     = privy.Wallet
	EVMBalance = evm.Balance
)

// lazy builds a sub-client on first use.
type lazy[T any] struct {
	once sync.Once
	v    T
	err  error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() { l.v, l.err = build() })
	return l.v, l.err
}

// Context is the agent context. Safe for concurrent use.
type Context struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger

	solana    lazy[*solana.Client]
	evm       lazy[*evm.Client]
	pyth      lazy[*pyth.Client]
	stork     lazy[*stork.Client]
	rugcheck  lazy[*rugcheck.Client]
	coingecko lazy[*coingecko.Client]
	dune      lazy[*dune.Client]
	privy     lazy[*privy.Client]
	jupiter   lazy[*jupiter.Client]
	backpack  lazy[*backpack.Client]
}

// Option configures a Context.
type Option func(*Context)

// WithHTTPClient shares hc between every REST upstream.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Context) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a Context. Sub-clients connect lazily, so New never dials.
func New(cfg Config, opts ...Option) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}
	c := &Context{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns a copy of the settings the Context was built with.
func (c *Context) Config() Config { return c.cfg }

// Close releases long-lived connections.
func (c *Context) Close() {
	if cl, err := c.evmClient(); err == nil {
		cl.Close()
	}
}

func (c *Context) restClient(service, base string, opts ...rest.Option) *rest.Client {
	all := []rest.Option{rest.WithHTTPClient(c.http), rest.WithLogger(c.logger)}
	if l, ok := c.cfg.Limits[service]; ok {
		all = append(all, rest.WithRateLimit(l.RPS, l.Burst))
	}
	return rest.New(service, base, append(all, opts...)...)
}

func notConfigured(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotConfigured)
}

func (c *Context) solanaClient() (*solana.Client, error) {
	return c.solana.get(func() (*solana.Client, error) {
		sc := c.cfg.Solana
		if sc.PrivateKey != "" {
			key, err := solana.ParseKey(sc.PrivateKey)
			if err != nil {
				return nil, fmt.Errorf("solana private key: %w", err)
			}
			return solana.New(sc.RPCURL, &key, c.logger), nil
		}
		cl := solana.New(sc.RPCURL, nil, c.logger)
		if sc.WalletAddress != "" {
			owner, err := solana.ParseAddress(sc.WalletAddress)
			if err != nil {
				return nil, fmt.Errorf("solana wallet address: %w", err)
			}
			cl.WithOwner(owner)
		}
		return cl, nil
	})
}

func (c *Context) evmClient() (*evm.Client, error) {
	return c.evm.get(func() (*evm.Client, error) {
		return evm.New(c.cfg.EVM.RPCURL), nil
	})
}

func (c *Context) pythClient() (*pyth.Client, error) {
	return c.pyth.get(func() (*pyth.Client, error) {
		return pyth.New(c.restClient("pyth", orDefault(c.cfg.Pyth.BaseURL, pyth.DefaultBaseURL))), nil
	})
}

func (c *Context) storkClient() (*stork.Client, error) {
	return c.stork.get(func() (*stork.Client, error) {
		if c.cfg.Stork.APIKey == "" {
			return nil, notConfigured("stork api key")
		}
		rc := c.restClient("stork", orDefault(c.cfg.Stork.BaseURL, stork.DefaultBaseURL),
			rest.WithHeader("Authorization", "Basic "+c.cfg.Stork.APIKey))
		return stork.New(rc), nil
	})
}

func (c *Context) rugcheckClient() (*rugcheck.Client, error) {
	return c.rugcheck.get(func() (*rugcheck.Client, error) {
		return rugcheck.New(c.restClient("rugcheck", orDefault(c.cfg.RugCheck.BaseURL, rugcheck.DefaultBaseURL))), nil
	})
}

func (c *Context) coingeckoClient() (*coingecko.Client, error) {
	return c.coingecko.get(func() (*coingecko.Client, error) {
		cg := c.cfg.CoinGecko
		switch {
		case cg.APIKey != "":
			return coingecko.New(c.restClient("coingecko", orDefault(cg.BaseURL, coingecko.ProBaseURL),
				rest.WithHeader(coingecko.ProKeyHeader, cg.APIKey))), nil
		case cg.DemoAPIKey != "":
			return coingecko.New(c.restClient("coingecko", orDefault(cg.BaseURL, coingecko.PublicBaseURL),
				rest.WithHeader(coingecko.DemoKeyHeader, cg.DemoAPIKey))), nil
		}
		return coingecko.New(c.restClient("coingecko", orDefault(cg.BaseURL, coingecko.PublicBaseURL))), nil
	})
}

func (c *Context) duneClient() (*dune.Client, error) {
	return c.dune.get(func() (*dune.Client, error) {
		if c.cfg.Dune.APIKey == "" {
			return nil, notConfigured("dune api key")
		}
		rc := c.restClient("dune", orDefault(c.cfg.Dune.BaseURL, dune.DefaultBaseURL),
			rest.WithHeader(dune.KeyHeader, c.cfg.Dune.APIKey))
		return dune.New(rc), nil
	})
}

func (c *Context) privyClient() (*privy.Client, error) {
	return c.privy.get(func() (*privy.Client, error) {
		p := c.cfg.Privy
		if p.AppID == "" || p.AppSecret == "" {
			return nil, notConfigured("privy app credentials")
		}
		rc := c.restClient("privy", orDefault(p.BaseURL, privy.DefaultBaseURL),
			rest.WithBasicAuth(p.AppID, p.AppSecret),
			rest.WithHeader(privy.AppIDHeader, p.AppID))
		return privy.New(rc), nil
	})
}

func (c *Context) jupiterClient() (*jupiter.Client, error) {
	return c.jupiter.get(func() (*jupiter.Client, error) {
		return jupiter.New(c.restClient("jupiter", orDefault(c.cfg.Jupiter.BaseURL, jupiter.DefaultBaseURL))), nil
	})
}

func (c *Context) backpackClient() (*backpack.Client, error) {
	return c.backpack.get(func() (*backpack.Client, error) {
		return backpack.New(c.restClient("backpack", orDefault(c.cfg.Backpack.BaseURL, backpack.DefaultBaseURL))), nil
	})
}

// WalletAddress returns the agent's Solana wallet, or "" when neither a key
// nor an address is configured.
func (c *Context) WalletAddress() string {
	cl, err := c.solanaClient()
	if err != nil || cl.Owner().IsZero() {
		return ""
	}
	return cl.Owner().String()
}

// CanSign reports whether mutating Solana actions can run.
func (c *Context) CanSign() bool {
	return c.cfg.Solana.PrivateKey != ""
}

// REST returns a client for an ad-hoc upstream sharing the context's HTTP
// client, logger and rate limit table.
func (c *Context) REST(service, baseURL string, headers map[string]string) *rest.Client {
	opts := make([]rest.Option, 0, len(headers))
	for k, v := range headers {
		opts = append(opts, rest.WithHeader(k, v))
	}
	return c.restClient(service, baseURL, opts...)
}
