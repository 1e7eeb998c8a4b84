package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/agentkit"
	"github.com/aretw0/agentkit/internal/cli"
	"github.com/aretw0/agentkit/internal/presentation/tui"
	httpAdapter "github.com/aretw0/agentkit/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP dispatch server",
	Long: `Serves the action catalog as a JSON API: POST /dispatch, POST /actions/{name},
GET /actions, GET /journal, GET /openapi.json and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		kit, cleanup, err := cli.BuildKit(ctx, cfg, logger, nil, agentkit.WithMetrics(reg))
		if err != nil {
			return err
		}
		defer cleanup()

		handler, err := httpAdapter.NewHandler(kit.Dispatcher(),
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			tui.PrintBanner(os.Stderr, agentkit.Version)
		}
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Starting agentkit HTTP server", "addr", addr, "version", strings.TrimSpace(agentkit.Version), "actions", kit.Registry().Len(), "shared_lock", kit.Dispatcher().SharedLock())

		if err := httpAdapter.Serve(ctx, addr, handler, logger); err != nil {
			return err
		}
		logger.Info("agentkit HTTP server stopped gracefully", "signal", ctx.Signal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
