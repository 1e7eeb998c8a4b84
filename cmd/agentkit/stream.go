package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit/internal/cli"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Answer JSONL dispatch requests on stdin",
	Long: `Reads one {"action": ..., "arguments": ...} object per line from stdin and
writes one reply per line to stdout, in order, until EOF.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		// Stdin carries the requests, so there is nowhere to confirm on.
		kit, cleanup, err := cli.BuildKit(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		err = cli.Stream(ctx, kit.Dispatcher(), os.Stdin, os.Stdout, logger)
		if ctx.Signal() != nil && errors.Is(err, ctx.Err()) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(streamCmd)
}
