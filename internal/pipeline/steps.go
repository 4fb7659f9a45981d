package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/seolens/internal/crawler"
	"github.com/nao1215/seolens/internal/dnscheck"
	"github.com/nao1215/seolens/internal/model"
)

// DomainChecker reports whether a domain has DNS records.
type DomainChecker interface {
	Check(ctx context.Context, host string) (dnscheck.RecordType, error)
}

// PageFetcher fetches the target page.
type PageFetcher interface {
	Fetch(ctx context.Context, target model.Target) (*model.FetchOutcome, error)
}

// PageExtractor fills a result from fetched HTML.
type PageExtractor interface {
	Extract(html string, target model.Target, result *model.Result) error
}

// SiteDiscoverer probes robots.txt and sitemap locations.
type SiteDiscoverer interface {
	Discover(ctx context.Context, target model.Target) crawler.Discovery
}

// ResolveStep fails the crawl with KindDomainNotFound when the target
// domain has no A, AAAA, CNAME or ANY record.
type ResolveStep struct {
	checker DomainChecker
	logger  *slog.Logger
}

// NewResolveStep creates a ResolveStep.
func NewResolveStep(checker DomainChecker, logger *slog.Logger) *ResolveStep {
	return &ResolveStep{checker: checker, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do runs the DNS existence check.
func (s *ResolveStep) Do(ctx context.Context, crawl *model.Crawl) error {
	rt, err := s.checker.Check(ctx, crawl.Target.Domain())
	if err == nil {
		s.logger.Debug("domain exists", "domain", crawl.Target.Domain(), "record", rt.String())
		return nil
	}

	kind := model.KindInternal
	if errors.Is(err, dnscheck.ErrNotFound) {
		kind = model.KindDomainNotFound
		err = nil
	}
	return &model.CrawlError{
		Kind:   kind,
		URL:    crawl.Target.String(),
		Domain: crawl.Target.Domain(),
		Err:    err,
	}
}

// FetchStep performs the page GET.
type FetchStep struct {
	fetcher PageFetcher
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(fetcher PageFetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches the page and stores the outcome.
func (s *FetchStep) Do(ctx context.Context, crawl *model.Crawl) error {
	outcome, err := s.fetcher.Fetch(ctx, crawl.Target)
	if err != nil {
		var ce *model.CrawlError
		if errors.As(err, &ce) {
			return err
		}
		return &model.CrawlError{
			Kind:   model.KindInternal,
			URL:    crawl.Target.String(),
			Domain: crawl.Target.Domain(),
			Err:    err,
		}
	}
	crawl.Outcome = outcome
	return nil
}

// ExtractStep builds the result from the fetched page.
type ExtractStep struct {
	extractor PageExtractor
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(extractor PageExtractor) *ExtractStep {
	return &ExtractStep{extractor: extractor}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do creates crawl.Result and fills it from the fetched HTML.
func (s *ExtractStep) Do(_ context.Context, crawl *model.Crawl) error {
	if crawl.Outcome == nil {
		return &model.CrawlError{
			Kind: model.KindInternal,
			URL:  crawl.Target.String(),
			Err:  errors.New("extract step requires a fetched page"),
		}
	}

	result := model.NewResult(crawl.Target)
	result.FinalURL = crawl.Outcome.FinalURL
	result.StatusCode = crawl.Outcome.StatusCode
	result.LoadTime = crawl.Outcome.LoadTimeMillis()
	result.CrawledAt = crawl.StartedAt.UTC()

	if err := s.extractor.Extract(crawl.Outcome.HTML, crawl.Target, result); err != nil {
		return &model.CrawlError{
			Kind:   model.KindInternal,
			URL:    crawl.Target.String(),
			Domain: crawl.Target.Domain(),
			Err:    fmt.Errorf("extraction failed: %w", err),
		}
	}

	crawl.Result = result
	return nil
}

// DiscoverStep adds robots.txt and sitemap information. It never fails.
type DiscoverStep struct {
	discoverer SiteDiscoverer
}

// NewDiscoverStep creates a DiscoverStep.
func NewDiscoverStep(discoverer SiteDiscoverer) *DiscoverStep {
	return &DiscoverStep{discoverer: discoverer}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return "discover"
}

// Do runs the auxiliary probes and copies their findings into the result.
func (s *DiscoverStep) Do(ctx context.Context, crawl *model.Crawl) error {
	if crawl.Result == nil {
		return nil
	}
	found := s.discoverer.Discover(ctx, crawl.Target)
	crawl.Result.RobotsTxt = found.RobotsTxt
	crawl.Result.SitemapURL = found.SitemapURL
	crawl.Result.CrawlAllowed = found.CrawlAllowed
	return nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
