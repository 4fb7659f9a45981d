package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nao1215/seolens/internal/config"
	"github.com/nao1215/seolens/internal/crawler"
	"github.com/nao1215/seolens/internal/dnscheck"
	"github.com/nao1215/seolens/internal/model"
)

// Service crawls single pages. The components it holds are stateless, so
// one Service serves any number of concurrent crawls; each crawl gets its
// own Pipeline and model.Crawl.
type Service struct {
	checker    DomainChecker
	fetcher    PageFetcher
	extractor  PageExtractor
	discoverer SiteDiscoverer
	logger     *slog.Logger

	httpClient *http.Client
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger passed to every component.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDomainChecker replaces the DNS existence check.
func WithDomainChecker(checker DomainChecker) ServiceOption {
	return func(s *Service) {
		s.checker = checker
	}
}

// WithServiceHTTPClient sets the HTTP client used for the page and probes.
func WithServiceHTTPClient(client *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = client
	}
}

// NewService wires the crawl components from cfg.
func NewService(cfg *config.Config, opts ...ServiceOption) *Service {
	s := &Service{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	fetcher := crawler.NewFetcher(
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithFetchTimeout(cfg.FetchTimeout),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithMaxRedirects(cfg.MaxRedirects),
		crawler.WithSiteConfigs(cfg.SiteConfigs),
		crawler.WithHTTPClient(s.httpClient),
		crawler.WithFetcherLogger(s.logger),
	)

	if s.checker == nil {
		s.checker = dnscheck.NewChecker(
			dnscheck.WithTimeout(cfg.DNSTimeout),
			dnscheck.WithServer(cfg.DNSServer),
			dnscheck.WithLogger(s.logger),
		)
	}
	s.fetcher = fetcher
	s.extractor = crawler.NewExtractor()
	s.discoverer = crawler.NewDiscoverer(fetcher,
		crawler.WithProbeTimeout(cfg.AuxTimeout),
		crawler.WithDiscovererLogger(s.logger),
	)
	return s
}

// NewPipeline builds the resolve, fetch, extract and discover pipeline.
func (s *Service) NewPipeline() *Pipeline {
	p := New(WithLogger(s.logger))
	p.AddSteps(
		NewResolveStep(s.checker, s.logger),
		NewFetchStep(s.fetcher),
		NewExtractStep(s.extractor),
		NewDiscoverStep(s.discoverer),
	)
	return p
}

// CrawlSite crawls rawURL and returns the extraction result.
// Errors are *model.CrawlError values; use errors.Is with the model
// sentinels or model.KindOf to classify them.
func (s *Service) CrawlSite(ctx context.Context, rawURL string) (*model.Result, error) {
	crawl := model.NewCrawl(rawURL)
	if err := s.Run(ctx, crawl); err != nil {
		return nil, err
	}
	return crawl.Result, nil
}

// Run normalizes crawl.Input and executes a fresh pipeline against crawl.
func (s *Service) Run(ctx context.Context, crawl *model.Crawl) error {
	target, err := model.NormalizeTarget(crawl.Input)
	if err != nil {
		s.logger.Debug("invalid crawl input", "input", crawl.Input, "error", err)
		crawl.Err = err
		return err
	}
	crawl.Target = target
	return s.NewPipeline().Execute(ctx, crawl)
}
