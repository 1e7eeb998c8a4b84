package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileMeansDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultLockTTL, cfg.LockTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "agentkit.yaml", `
solana:
  rpc_url: https://api.devnet.solana.com
  wallet_address: 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin
coingecko:
  demo_api_key: demo-key
timeout: 10s
rate_limits:
  coingecko: {rps: 0.5, burst: 1}
log:
  level: debug
  format: json
server:
  port: 9090
redis:
  addr: localhost:6379
  journal_ttl: 1h
actions: [GET_TPS, PYTH_FETCH_PRICE]
read_only: true
lock_ttl: 5s
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.devnet.solana.com", cfg.Solana.RPCURL)
	assert.Equal(t, "demo-key", cfg.CoinGecko.DemoAPIKey)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0.5, cfg.Limits["coingecko"].RPS)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, DefaultRedisPrefix, cfg.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, time.Hour, cfg.Redis.JournalTTL)
	assert.Equal(t, []string{"GET_TPS", "PYTH_FETCH_PRICE"}, cfg.Actions)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_JSON(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "agentkit.json", `{"server": {"port": 7000}, "privy": {"app_id": "app"}}`)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "app", cfg.Privy.AppID)
}

func TestLoad_ParseError(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "bad.yaml", "server: [unclosed")

	_, err := Load(path, "")
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "agentkit.yaml", "solana:\n  rpc_url: https://from-file\n")
	t.Setenv("SOLANA_RPC_URL", "https://from-env")
	t.Setenv("SOLANA_PRIVATE_KEY", "secret")
	t.Setenv("PRIVY_APP_ID", "privy-app")
	t.Setenv("AGENTKIT_ACTIONS", "GET_TPS, ,GET_BALANCE")
	t.Setenv("AGENTKIT_PORT", "9999")
	t.Setenv("AGENTKIT_READ_ONLY", "true")
	t.Setenv("AGENTKIT_TIMEOUT", "3s")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "https://from-env", cfg.Solana.RPCURL)
	assert.Equal(t, "secret", cfg.Solana.PrivateKey)
	assert.Equal(t, "privy-app", cfg.Privy.AppID)
	assert.Equal(t, []string{"GET_TPS", "GET_BALANCE"}, cfg.Actions)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoad_AgentkitNameWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENTKIT_DUNE_API_KEY", "primary")
	t.Setenv("DUNE_API_KEY", "fallback")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.Dune.APIKey)
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AGENTKIT_PORT", "eighty")
	t.Setenv("AGENTKIT_LOCK_TTL", "soon")

	_, err := Load("", "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "AGENTKIT_PORT")
	assert.ErrorContains(t, err, "AGENTKIT_LOCK_TTL")
}

func TestLoad_EnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	envFile := writeFile(t, "test.env", "STORK_API_KEY=from-dotenv\nAGENTKIT_LOG_LEVEL=warn\n")
	t.Setenv("STORK_API_KEY", "")
	os.Unsetenv("STORK_API_KEY")
	t.Setenv("AGENTKIT_LOG_LEVEL", "")
	os.Unsetenv("AGENTKIT_LOG_LEVEL")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Stork.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "failed to load env file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Server.Port = 70000
	cfg.LockTTL = -time.Second
	cfg.Solana.RPCURL = "not a url"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"log.level", "log.format", "server.port", "lock_ttl", "solana.rpc_url"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a,,b , "))
	assert.Nil(t, SplitList(""))
}
