package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit/internal/cli"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the served actions and their inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		// Listing never needs the shared journal.
		cfg.Redis.Addr = ""

		kit, cleanup, err := cli.BuildKit(cmd.Context(), cfg, logger, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		asJSON, _ := cmd.Flags().GetBool("json")
		return cli.PrintActions(cmd.OutOrStdout(), kit.Registry().Entries(), asJSON)
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	actionsCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
