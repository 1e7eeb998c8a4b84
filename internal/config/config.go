// Package config loads process configuration from a YAML file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/agentkit/internal/logging"
	"github.com/aretw0/agentkit/pkg/agent"
)

const (
	DefaultPort            = 8080
	DefaultRedisPrefix     = "agentkit:"
	DefaultJournalCapacity = 1000
	DefaultLockTTL         = 30 * time.Second
)

// Config is the full process configuration.
type Config struct {
	agent.Config `yaml:",inline"`

	Log     LogConfig     `yaml:"log" json:"log"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Redis   RedisConfig   `yaml:"redis" json:"redis"`
	Journal JournalConfig `yaml:"journal" json:"journal"`

	// Actions restricts the served catalog. Empty serves everything.
	Actions []string `yaml:"actions" json:"actions,omitempty"`
	// ActionsFile declares extra HTTP actions.
	ActionsFile string `yaml:"actions_file" json:"actions_file,omitempty"`
	// ReadOnly rejects every mutating action.
	ReadOnly bool `yaml:"read_only" json:"read_only"`
	// Confirm asks on the terminal before mutating actions (call only).
	Confirm bool          `yaml:"confirm" json:"confirm"`
	LockTTL time.Duration `yaml:"lock_ttl" json:"lock_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// RedisConfig enables the shared journal and signer lock when Addr is set.
type RedisConfig struct {
	Addr       string        `yaml:"addr" json:"addr"`
	Prefix     string        `yaml:"prefix" json:"prefix"`
	JournalTTL time.Duration `yaml:"journal_ttl" json:"journal_ttl"`
}

type JournalConfig struct {
	Capacity int `yaml:"capacity" json:"capacity"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Config:  agent.Config{Timeout: agent.DefaultHTTPTimeout},
		Log:     LogConfig{Level: "info", Format: logging.FormatText},
		Server:  ServerConfig{Port: DefaultPort},
		Redis:   RedisConfig{Prefix: DefaultRedisPrefix},
		Journal: JournalConfig{Capacity: DefaultJournalCapacity},
		LockTTL: DefaultLockTTL,
	}
}

// Load reads path over the defaults, then applies envFile and the environment.
// A missing config file means defaults. An empty envFile loads ./.env if present;
// a named envFile must exist. Variables already set in the environment win over
// the .env file.
func Load(path, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			// JSON documents are valid YAML.
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overlays environment variables. Conventional upstream names are
// accepted next to the AGENTKIT_ ones.
func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := []struct {
		dst   *string
		names []string
	}{
		{&c.Solana.RPCURL, []string{"AGENTKIT_SOLANA_RPC_URL", "SOLANA_RPC_URL", "RPC_URL"}},
		{&c.Solana.PrivateKey, []string{"AGENTKIT_SOLANA_PRIVATE_KEY", "SOLANA_PRIVATE_KEY"}},
		{&c.Solana.WalletAddress, []string{"AGENTKIT_SOLANA_WALLET_ADDRESS", "SOLANA_WALLET_ADDRESS"}},
		{&c.EVM.RPCURL, []string{"AGENTKIT_EVM_RPC_URL", "EVM_RPC_URL"}},
		{&c.Pyth.BaseURL, []string{"AGENTKIT_PYTH_BASE_URL"}},
		{&c.Stork.BaseURL, []string{"AGENTKIT_STORK_BASE_URL"}},
		{&c.Stork.APIKey, []string{"AGENTKIT_STORK_API_KEY", "STORK_API_KEY"}},
		{&c.RugCheck.BaseURL, []string{"AGENTKIT_RUGCHECK_BASE_URL"}},
		{&c.CoinGecko.BaseURL, []string{"AGENTKIT_COINGECKO_BASE_URL"}},
		{&c.CoinGecko.APIKey, []string{"AGENTKIT_COINGECKO_API_KEY", "COINGECKO_PRO_API_KEY", "COINGECKO_API_KEY"}},
		{&c.CoinGecko.DemoAPIKey, []string{"AGENTKIT_COINGECKO_DEMO_API_KEY", "COINGECKO_DEMO_API_KEY"}},
		{&c.Dune.BaseURL, []string{"AGENTKIT_DUNE_BASE_URL"}},
		{&c.Dune.APIKey, []string{"AGENTKIT_DUNE_API_KEY", "DUNE_API_KEY"}},
		{&c.Privy.BaseURL, []string{"AGENTKIT_PRIVY_BASE_URL"}},
		{&c.Privy.AppID, []string{"AGENTKIT_PRIVY_APP_ID", "PRIVY_APP_ID"}},
		{&c.Privy.AppSecret, []string{"AGENTKIT_PRIVY_APP_SECRET", "PRIVY_APP_SECRET"}},
		{&c.Jupiter.BaseURL, []string{"AGENTKIT_JUPITER_BASE_URL"}},
		{&c.Backpack.BaseURL, []string{"AGENTKIT_BACKPACK_BASE_URL"}},
		{&c.Log.Level, []string{"AGENTKIT_LOG_LEVEL"}},
		{&c.Log.Format, []string{"AGENTKIT_LOG_FORMAT"}},
		{&c.Redis.Addr, []string{"AGENTKIT_REDIS_ADDR", "REDIS_URL"}},
		{&c.Redis.Prefix, []string{"AGENTKIT_REDIS_PREFIX"}},
		{&c.ActionsFile, []string{"AGENTKIT_ACTIONS_FILE"}},
	}
	for _, s := range strs {
		if v, ok := first(lookup, s.names...); ok {
			*s.dst = v
		}
	}

	var errs []error
	if v, ok := lookup("AGENTKIT_ACTIONS"); ok {
		c.Actions = SplitList(v)
	}
	if v, ok := lookup("AGENTKIT_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("AGENTKIT_PORT: %w", err))
		}
		c.Server.Port = port
	}
	for name, dst := range map[string]*bool{
		"AGENTKIT_READ_ONLY": &c.ReadOnly,
		"AGENTKIT_CONFIRM":   &c.Confirm,
	} {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
			*dst = b
		}
	}
	for name, dst := range map[string]*time.Duration{
		"AGENTKIT_TIMEOUT":           &c.Timeout,
		"AGENTKIT_LOCK_TTL":          &c.LockTTL,
		"AGENTKIT_REDIS_JOURNAL_TTL": &c.Redis.JournalTTL,
	} {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
			*dst = d
		}
	}
	return errors.Join(errs...)
}

func first(lookup lookupFunc, names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := lookup(n); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every setting that prevents startup.
func (c *Config) Validate() error {
	errs := []error{c.Config.Validate()}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}
	if c.LockTTL < 0 {
		errs = append(errs, errors.New("lock_ttl must not be negative"))
	}
	if c.Redis.JournalTTL < 0 {
		errs = append(errs, errors.New("redis.journal_ttl must not be negative"))
	}
	if c.Journal.Capacity < 0 {
		errs = append(errs, errors.New("journal.capacity must not be negative"))
	}
	return errors.Join(errs...)
}
