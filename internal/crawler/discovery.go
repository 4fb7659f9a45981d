package crawler

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/nao1215/seolens/internal/config"
	"github.com/nao1215/seolens/internal/model"
)

// maxRobotsBodySize is how much of robots.txt is read for parsing.
// Only the first model.MaxRobotsTxtRunes characters end up in the result.
const maxRobotsBodySize = 512 * 1024

// sitemapCandidates are probed in order when robots.txt names no sitemap.
var sitemapCandidates = []string{"/sitemap.xml", "/sitemap_index.xml"}

// sitemapDirective finds a Sitemap line when the robots.txt parser gives up.
var sitemapDirective = regexp.MustCompile(`(?im)^\s*sitemap:\s*(\S.*?)\s*$`)

// Discovery holds what the auxiliary probes found. Every field is nil when
// the corresponding probe failed.
type Discovery struct {
	RobotsTxt    *string
	SitemapURL   *string
	CrawlAllowed *bool
}

// Discoverer runs the robots.txt and sitemap probes of a crawl.
// Every failure is logged and swallowed.
type Discoverer struct {
	fetcher *Fetcher
	timeout time.Duration
	logger  *slog.Logger
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithProbeTimeout sets the timeout of each probe.
func WithProbeTimeout(d time.Duration) DiscovererOption {
	return func(dc *Discoverer) {
		if d > 0 {
			dc.timeout = d
		}
	}
}

// WithDiscovererLogger sets the logger.
func WithDiscovererLogger(logger *slog.Logger) DiscovererOption {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDiscoverer creates a Discoverer that sends its probes through fetcher.
func NewDiscoverer(fetcher *Fetcher, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		fetcher: fetcher,
		timeout: config.DefaultAuxTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover fetches robots.txt and looks for a sitemap. A Sitemap directive
// in robots.txt wins; otherwise the well-known sitemap paths are probed in
// order and the first one answering 2xx is used.
func (d *Discoverer) Discover(ctx context.Context, target model.Target) Discovery {
	var out Discovery

	robotsURL := target.SiteURL("/robots.txt")
	resp, err := d.probe(ctx, robotsURL, target.Domain(), maxRobotsBodySize)
	switch {
	case err != nil:
		d.logFailure(target, robotsURL, err)
	case !resp.ok():
		d.logger.Debug("robots.txt not available", "url", robotsURL, "status", resp.statusCode)
	default:
		out.RobotsTxt = model.StringPtr(truncateRunes(resp.body, model.MaxRobotsTxtRunes))
		sitemap, allowed := d.parseRobots(resp, target)
		out.SitemapURL = model.StringPtr(sitemap)
		out.CrawlAllowed = allowed
	}

	if out.SitemapURL != nil {
		return out
	}

	for _, p := range sitemapCandidates {
		candidate := target.SiteURL(p)
		resp, err := d.probe(ctx, candidate, target.Domain(), 0)
		if err != nil {
			d.logFailure(target, candidate, err)
			continue
		}
		if resp.ok() {
			out.SitemapURL = model.StringPtr(candidate)
			break
		}
		d.logger.Debug("sitemap candidate not available", "url", candidate, "status", resp.statusCode)
	}

	return out
}

func (d *Discoverer) probe(ctx context.Context, rawURL, domain string, limit int64) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.fetcher.get(ctx, rawURL, domain, limit)
}

// parseRobots returns the first Sitemap directive and whether the fetcher's
// user agent may fetch the target path. The permission is nil when the file
// could not be parsed.
func (d *Discoverer) parseRobots(resp *response, target model.Target) (string, *bool) {
	robots, err := robotstxt.FromStatusAndBytes(resp.statusCode, []byte(resp.body))
	if err != nil {
		d.logger.Debug("robots.txt parse failed, scanning for sitemap", "error", err)
		if m := sitemapDirective.FindStringSubmatch(resp.body); m != nil {
			return strings.TrimSpace(m[1]), nil
		}
		return "", nil
	}

	var sitemap string
	if len(robots.Sitemaps) > 0 {
		sitemap = strings.TrimSpace(robots.Sitemaps[0])
	}

	path := "/"
	if u := target.URL(); u != nil && u.EscapedPath() != "" {
		path = u.EscapedPath()
	}
	allowed := robots.TestAgent(path, d.fetcher.agentFor(target.Domain()))
	return sitemap, &allowed
}

func (d *Discoverer) logFailure(target model.Target, rawURL string, err error) {
	aux := &model.CrawlError{
		Kind:   model.KindAuxiliaryFetchFailed,
		URL:    rawURL,
		Domain: target.Domain(),
		Err:    err,
	}
	d.logger.Debug("auxiliary probe failed", "url", rawURL, "error", aux)
}
