package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seolens/internal/config"
	"github.com/nao1215/seolens/internal/model"
)

// Runner runs one crawl. *Service implements it.
type Runner interface {
	Run(ctx context.Context, crawl *model.Crawl) error
}

// BatchProcessor crawls several URLs concurrently. A failed crawl is
// recorded in its model.Crawl and does not stop the others.
type BatchProcessor struct {
	runner      Runner
	concurrency int
	logger      *slog.Logger

	mu      sync.Mutex
	results []*model.Crawl
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent crawls.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor that runs crawls with runner.
func NewBatchProcessor(runner Runner, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		runner:      runner,
		concurrency: config.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch crawls every URL and returns one model.Crawl per URL, in
// input order. The error is non-nil only when ctx was cancelled; crawls
// that never started are returned with that error in Err.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.Crawl, error) {
	bp.logger.Info("starting batch", "total", len(urls), "concurrency", bp.concurrency)
	start := time.Now()

	bp.results = make([]*model.Crawl, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			crawl := model.NewCrawl(u)
			defer bp.store(i, crawl)

			if err := ctx.Err(); err != nil {
				crawl.Err = err
				return err
			}

			if err := bp.runner.Run(ctx, crawl); err != nil {
				bp.logger.Warn("crawl failed", "url", u, "error", err)
				return nil
			}
			bp.logger.Info("crawl completed", "url", u)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete", "total", len(urls), "elapsed", time.Since(start))
	return bp.results, err
}

// ProcessBatchWithCallback crawls every URL and calls callback as each
// crawl finishes. callback runs on the crawl's goroutine.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(crawl *model.Crawl, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			crawl := model.NewCrawl(u)
			_ = bp.runner.Run(ctx, crawl) //nolint:errcheck // Error is stored in crawl.Err
			callback(crawl, i)
			return nil
		})
	}

	return g.Wait()
}

func (bp *BatchProcessor) store(i int, crawl *model.Crawl) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.results[i] = crawl
}
