package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/seolens/internal/config"
	"github.com/nao1215/seolens/internal/model"
)

// Fetcher performs the single page GET of a crawl and the auxiliary probes
// that follow it. One Fetcher can serve many crawls concurrently; it keeps
// no per-crawl state.
type Fetcher struct {
	// client is shared so connections to the same site are reused by the
	// robots.txt and sitemap probes.
	client *http.Client

	// userAgent is sent unless the site config overrides it.
	userAgent string

	// maxBodySize limits how much of the page is read.
	maxBodySize int64

	// maxRedirects is the redirect limit of every request.
	maxRedirects int

	// timeout bounds the page fetch including the body read.
	timeout time.Duration

	// sites holds per-site headers and cookies. May be nil.
	sites *config.File

	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the page body limit. Zero keeps the default.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithFetchTimeout sets the page fetch timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxRedirects sets how many redirects are followed.
func WithMaxRedirects(n int) FetcherOption {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRedirects = n
		}
	}
}

// WithSiteConfigs sets the per-site request settings.
func WithSiteConfigs(sites *config.File) FetcherOption {
	return func(f *Fetcher) {
		f.sites = sites
	}
}

// WithHTTPClient replaces the HTTP client. Its CheckRedirect is replaced
// so the redirect limit still applies.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			c := *client
			f.client = &c
		}
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher with the defaults from the config package.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(), //nolint:forcetypeassert // DefaultTransport is always *http.Transport
		},
		userAgent:    config.DefaultUserAgent,
		maxBodySize:  config.DefaultMaxBodySize,
		maxRedirects: config.DefaultMaxRedirects,
		timeout:      config.DefaultFetchTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.CheckRedirect = f.checkRedirect
	return f
}

func (f *Fetcher) checkRedirect(_ *http.Request, via []*http.Request) error {
	if len(via) > f.maxRedirects {
		return fmt.Errorf("stopped after %d redirects", f.maxRedirects)
	}
	return nil
}

// response is the part of an HTTP response the crawler keeps.
type response struct {
	statusCode  int
	finalURL    string
	contentType string
	body        string
}

func (r *response) ok() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// Fetch GETs the target page. A non-2xx final status is returned as a
// *model.CrawlError of kind KindNonSuccessStatus; transport failures are
// classified into KindFetchTimeout, KindUnreachable or KindInternal.
func (f *Fetcher) Fetch(ctx context.Context, target model.Target) (*model.FetchOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	f.logger.Debug("fetching page", "url", target.String())

	start := time.Now()
	resp, err := f.get(ctx, target.String(), target.Domain(), f.maxBodySize)
	elapsed := time.Since(start)
	if err != nil {
		return nil, f.classify(target, err)
	}

	f.logger.Debug("page fetched",
		"url", target.String(),
		"final_url", resp.finalURL,
		"status", resp.statusCode,
		"elapsed", elapsed,
		"bytes", len(resp.body),
	)

	if !resp.ok() {
		return nil, &model.CrawlError{
			Kind:       model.KindNonSuccessStatus,
			URL:        target.String(),
			Domain:     target.Domain(),
			StatusCode: resp.statusCode,
		}
	}

	return &model.FetchOutcome{
		StatusCode:  resp.statusCode,
		LoadTime:    elapsed,
		HTML:        resp.body,
		FinalURL:    resp.finalURL,
		ContentType: resp.contentType,
	}, nil
}

// get performs one GET against rawURL and reads at most limit bytes of the
// body, decoded to UTF-8. A limit of zero skips the body.
func (f *Fetcher) get(ctx context.Context, rawURL, domain string, limit int64) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	f.applyHeaders(req, domain)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &response{
		statusCode:  resp.StatusCode,
		finalURL:    resp.Request.URL.String(),
		contentType: resp.Header.Get("Content-Type"),
	}
	if limit <= 0 {
		return out, nil
	}

	body, err := readBody(resp.Body, out.contentType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	out.body = body
	return out, nil
}

// readBody reads up to limit bytes and converts them to UTF-8 using the
// charset from contentType or the document's own meta tag.
func readBody(r io.Reader, contentType string, limit int64) (string, error) {
	decoded, err := charset.NewReader(io.LimitReader(r, limit), contentType)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}
	b, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// agentFor returns the User-Agent sent to domain.
func (f *Fetcher) agentFor(domain string) string {
	if site := f.sites.GetSiteConfig(domain); site.UserAgent != "" {
		return site.UserAgent
	}
	return f.userAgent
}

func (f *Fetcher) applyHeaders(req *http.Request, domain string) {
	site := f.sites.GetSiteConfig(domain)

	req.Header.Set("User-Agent", f.agentFor(domain))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	if site.Cookie != "" {
		req.Header.Set("Cookie", site.Cookie)
	}
	for k, v := range site.Headers {
		req.Header.Set(k, v)
	}
}

// classify maps a transport error onto the crawl error taxonomy.
func (f *Fetcher) classify(target model.Target, err error) error {
	kind := transportErrorKind(err)
	f.logger.Debug("page fetch failed", "url", target.String(), "kind", kind.String(), "error", err)
	return &model.CrawlError{
		Kind:   kind,
		URL:    target.String(),
		Domain: target.Domain(),
		Err:    err,
	}
}

func transportErrorKind(err error) model.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.KindFetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.KindFetchTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return model.KindUnreachable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return model.KindUnreachable
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		if strings.Contains(opErr.Error(), "refused") || strings.Contains(opErr.Error(), "unreachable") {
			return model.KindUnreachable
		}
	}

	return model.KindInternal
}
