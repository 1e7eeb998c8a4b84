// Package cli holds the command implementations behind cmd/agentkit.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/agentkit/internal/config"
	"github.com/aretw0/agentkit/internal/logging"
)

// Options are the global flags shared by every command.
// Empty values leave the loaded configuration untouched.
type Options struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFormat  string
	Actions    []string
	RedisAddr  string
	ReadOnly   bool
}

// LoadConfig loads the configuration and overlays the flags.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	if len(opts.Actions) > 0 {
		cfg.Actions = opts.Actions
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Addr = opts.RedisAddr
	}
	if opts.ReadOnly {
		cfg.ReadOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger. It always writes to stderr so stdout
// stays free for JSON-RPC and JSONL traffic.
func NewLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format), nil
}
