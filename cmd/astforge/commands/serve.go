package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astforge/pkg/observability"
)

const (
	serverIdleTimeout     = 120 * time.Second
	serverShutdownTimeout = 10 * time.Second
	meterName             = "astforge"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server exposing the printer:

  POST /api/print       deserialize a node document and print Go code
  POST /api/validate    check a node document without printing it
  GET  /api/operations  list the node-construction operations
  GET  /healthz         liveness probe
  GET  /readyz          readiness probe
  GET  /metrics         Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}

			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "address to listen on (default server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default server.port)")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := observability.Init(a.telemetry(observability.ModeServe))
	if err != nil {
		return err
	}

	logger := providers.Logger

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	meterProvider, metricsHandler, err := observability.PrometheusProvider()
	if err != nil {
		return err
	}

	meter := meterProvider.Meter(meterName)

	red, err := observability.NewREDMetrics(meter)
	if err != nil {
		return err
	}

	printMetrics, err := observability.NewPrintMetrics(meter)
	if err != nil {
		return err
	}

	maxBytes, err := a.cfg.Input.MaxBytes()
	if err != nil {
		return err
	}

	handler := newAPIHandler(apiDeps{
		logger:       logger,
		tracer:       providers.Tracer,
		red:          red,
		printMetrics: printMetrics,
		metrics:      metricsHandler,
		options:      a.cfg.Printer.Options(),
		pkg:          a.cfg.Printer.PackageName,
		maxBytes:     maxBytes,
	})

	addr := a.cfg.Server.Addr()

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  serverIdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("astforge server starting", "addr", "http://"+addr)

		errCh <- server.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("astforge server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
