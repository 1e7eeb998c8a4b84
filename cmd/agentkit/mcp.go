package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit"
	"github.com/aretw0/agentkit/internal/cli"
	"github.com/aretw0/agentkit/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Serves the action catalog as MCP tools.
Every action is one tool, plus a "dispatch" tool taking an action name and raw arguments.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		kit, cleanup, err := cli.BuildKit(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		srv, err := mcp.NewServer(kit.Dispatcher(), logger)
		if err != nil {
			return err
		}

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting agentkit MCP Server (Stdio)", "version", strings.TrimSpace(agentkit.Version), "actions", kit.Registry().Len())
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting agentkit MCP Server (SSE)", "port", cfg.Server.Port, "actions", kit.Registry().Len())
			if err := srv.ServeSSE(ctx, cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully", "signal", ctx.Signal())
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().IntP("port", "p", 8080, "Port to listen on (only for SSE)")
}
