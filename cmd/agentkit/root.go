package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit/internal/cli"
	"github.com/aretw0/agentkit/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "agentkit",
	Short: "agentkit dispatches named blockchain and oracle actions",
	Long: `agentkit exposes a catalog of schema-validated actions (balances, transfers,
oracle prices, token reports, wallets) to tool-calling hosts over MCP, HTTP,
JSONL or the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "agentkit.yaml", "Configuration file (YAML or JSON)")
	flags.String("env-file", "", "Environment file to load (default ./.env when present)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	flags.StringSlice("actions", nil, "Serve only these actions")
	flags.String("redis", "", "Redis address for the shared journal and signer lock")
	flags.Bool("read-only", false, "Reject every mutating action")
}

func globalOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.EnvFile, _ = flags.GetString("env-file")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.LogFormat, _ = flags.GetString("log-format")
	opts.Actions, _ = flags.GetStringSlice("actions")
	opts.RedisAddr, _ = flags.GetString("redis")
	opts.ReadOnly, _ = flags.GetBool("read-only")
	return opts
}

// setup loads the configuration and the logger every command starts from.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := cli.LoadConfig(globalOptions(cmd))
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
