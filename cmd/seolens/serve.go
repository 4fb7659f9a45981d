package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/seolens/internal/config"
	"github.com/nao1215/seolens/internal/log"
	"github.com/nao1215/seolens/internal/pipeline"
	"github.com/nao1215/seolens/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the crawl API over HTTP",
		Long: `Serve starts an HTTP server exposing the crawler as a JSON API.

Endpoints:
  GET /api/crawl?url=<url>   crawl one page; 200 with the result as JSON
  GET /healthz               liveness probe

Failed crawls answer with {"error": "...", "url": "...", "statusCode": ...}
and a status matching the failure: 400 invalid URL, 404 unknown domain,
408 timeout, 503 unreachable, the upstream status for non-2xx pages and
500 otherwise.

Examples:
  seolens serve
  seolens serve --addr 127.0.0.1:9000 --timeout 15s`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addCrawlerFlags(cmd)
	cmd.Flags().StringP("addr", "a", config.DefaultListenAddr, "Listen address")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ListenAddr, err = cmd.Flags().GetString("addr"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := setupLogger(cmd, cmd.ErrOrStderr(), log.FormatJSON)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newServer(cfg, logger).Serve(ctx)
}

// newServer wires a Service into an API server.
func newServer(cfg *config.Config, logger *slog.Logger) *server.Server {
	service := pipeline.NewService(cfg, pipeline.WithServiceLogger(logger))
	return server.New(service,
		server.WithAddr(cfg.ListenAddr),
		server.WithLogger(logger),
		server.WithShutdownTimeout(cfg.FetchTimeout+cfg.AuxTimeout),
	)
}
