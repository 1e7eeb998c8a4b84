package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [ACTION [JSON | key=value ...]]",
	Short: "Check the configuration, the actions file and every input schema",
	Long: `Loads the configuration, builds the catalog and compiles every input schema.
Given an action and arguments, it also checks the arguments against that
action's schema and lists every violation, without calling the action.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		reg, err := cli.Validate(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid! %d actions ✅\n", reg.Len())

		if len(args) == 0 {
			return nil
		}
		if err := cli.CheckArguments(reg, args[0], args[1:]); err != nil {
			return fmt.Errorf("invalid arguments for %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Arguments for %s are valid ✅\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
