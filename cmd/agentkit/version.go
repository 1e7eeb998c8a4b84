package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agentkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agentkit version %s\n", strings.TrimSpace(agentkit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
