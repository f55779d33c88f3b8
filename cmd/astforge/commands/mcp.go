package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astforge/pkg/mcp"
	"github.com/Sumatoshi-tech/astforge/pkg/observability"
)

func newMCPCommand(a *app) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes astforge as tools that AI agents can discover
and invoke:
  - astforge_print: Deserialize a node document and print Go code
  - astforge_validate: Check a node document without printing it
  - astforge_operations: List the node-construction operations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd.Context(), a, debug)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}

func runMCP(ctx context.Context, a *app, debug bool) error {
	cfg := a.telemetry(observability.ModeMCP)
	cfg.LogJSON = true

	if debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	providers, err := observability.Init(cfg)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return err
	}

	printMetrics, err := observability.NewPrintMetrics(providers.Meter)
	if err != nil {
		return err
	}

	maxBytes, err := a.cfg.Input.MaxBytes()
	if err != nil {
		return err
	}

	opts := a.cfg.Printer.Options()

	srv := mcp.NewServer(mcp.ServerDeps{
		Logger:        providers.Logger,
		Metrics:       red,
		PrintMetrics:  printMetrics,
		Tracer:        providers.Tracer,
		Options:       &opts,
		Package:       a.cfg.Printer.PackageName,
		MaxInputBytes: maxBytes,
	})

	return srv.Run(ctx)
}
