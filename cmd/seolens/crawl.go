package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/seolens/internal/config"
	"github.com/nao1215/seolens/internal/log"
	"github.com/nao1215/seolens/internal/model"
	"github.com/nao1215/seolens/internal/pipeline"
	"github.com/nao1215/seolens/internal/report"
)

// errCrawlsFailed is returned when at least one target failed, so the
// process exits non-zero after every report has been written.
var errCrawlsFailed = errors.New("crawl failed")

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]...",
		Short: "Fetch pages and report their SEO-relevant data",
		Long: `Crawl fetches each URL once and extracts its SEO-relevant data.

A URL without a scheme is fetched over https. For every page seolens reports
the title, meta and Open Graph tags, internal and external links, images,
h1-h3 headings, a text preview, robots.txt and the sitemap URL.

Examples:
  # Crawl a single page
  seolens crawl example.com

  # Crawl several pages, two at a time
  seolens crawl --batch 2 example.com example.org example.net

  # Output JSON
  seolens crawl --json https://example.com/pricing

  # Write a Markdown report to a file
  seolens crawl --markdown -o reports/example.md example.com

Configuration file (.seolens) example:
  defaults:
    userAgent: "Mozilla/5.0 (compatible; seolens)"
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	addCrawlerFlags(cmd)

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent crawls")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file (creates directories if needed)")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.ValidateTargets(); err != nil {
		return fmt.Errorf("%w (specify one or more URLs as arguments)", err)
	}

	logger, err := setupLogger(cmd, cmd.ErrOrStderr(), log.FormatConsole)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	prog := newProgress(cmd.ErrOrStderr(), !cfg.Verbose)
	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout(), prog)
}

// buildCrawlConfig adds the crawl-only flags and targets to buildConfig.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	cfg.Targets = args
	return cfg, nil
}

// runCrawl crawls every target and writes one report per target to stdout
// or cfg.ReportFile.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer, prog *progress) error {
	logger.Info("starting crawl",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
	)

	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	service := pipeline.NewService(cfg, pipeline.WithServiceLogger(logger))
	writer := newReportWriter(cfg, output)

	var failed int
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		failed, err = runBatchCrawl(ctx, cfg, service, writer, logger, prog)
	} else {
		failed, err = runSequentialCrawl(ctx, cfg, service, writer, logger, prog)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d targets", errCrawlsFailed, failed, len(cfg.Targets))
	}
	return nil
}

// runSequentialCrawl crawls targets one at a time.
func runSequentialCrawl(
	ctx context.Context,
	cfg *config.Config,
	runner pipeline.Runner,
	writer report.Writer,
	logger *slog.Logger,
	prog *progress,
) (int, error) {
	var failed int
	for _, target := range cfg.Targets {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		crawl := model.NewCrawl(target)
		prog.Start("Crawling " + target)
		err := runner.Run(ctx, crawl)
		prog.Stop()
		if err != nil {
			failed++
			logger.Warn("crawl failed", "target", target, "error", err)
		}

		if _, err := report.WriteCrawl(writer, crawl); err != nil {
			return failed, fmt.Errorf("failed to write report: %w", err)
		}
	}
	return failed, nil
}

// runBatchCrawl crawls targets concurrently with a BatchProcessor and
// writes each report as soon as its crawl finishes.
func runBatchCrawl(
	ctx context.Context,
	cfg *config.Config,
	runner pipeline.Runner,
	writer report.Writer,
	logger *slog.Logger,
	prog *progress,
) (int, error) {
	bp := pipeline.NewBatchProcessor(runner,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	prog.Start(fmt.Sprintf("Crawling %d URLs (concurrency: %d)", len(cfg.Targets), cfg.BatchSize))
	defer prog.Stop()

	var (
		mu       sync.Mutex
		failed   int
		writeErr error
	)
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(crawl *model.Crawl, _ int) {
		mu.Lock()
		defer mu.Unlock()

		if crawl.Failed() {
			failed++
		}
		if writeErr != nil {
			return
		}
		if _, err := report.WriteCrawl(writer, crawl); err != nil {
			writeErr = fmt.Errorf("failed to write report: %w", err)
		}
	})
	if writeErr != nil {
		return failed, writeErr
	}
	return failed, err
}

// newReportWriter returns the writer for the requested output format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// openOutput returns path opened for writing, or stdout when path is empty.
// Report files are owner-only.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Best effort close
}
