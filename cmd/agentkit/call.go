package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit/internal/cli"
)

var callCmd = &cobra.Command{
	Use:   "call ACTION [JSON | key=value ...]",
	Short: "Dispatch one action and print the reply",
	Long: `Dispatches a single action. Arguments are a JSON object or shell-style
key=value pairs, for example:

  agentkit call PYTH_FETCH_PRICE price_feed_id=0xef0d8b6f...
  agentkit call COINGECKO_TOKEN_PRICE '{"token_addresses": ["So11111111111111111111111111111111111111112"]}'

The command exits non-zero when the action does not succeed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if confirm, _ := cmd.Flags().GetBool("confirm"); confirm {
			cfg.Confirm = true
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		kit, cleanup, err := cli.BuildKit(ctx, cfg, logger, &cli.Prompt{In: os.Stdin, Out: os.Stderr})
		if err != nil {
			return err
		}
		defer cleanup()

		return cli.Call(ctx, kit.Dispatcher(), args[0], args[1:], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().Bool("confirm", false, "Ask before running mutating actions")
}
