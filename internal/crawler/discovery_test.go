package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nao1215/seolens/internal/model"
)

// siteServer serves fixed bodies per path and 404 for the rest.
// It records the paths it was asked for.
type siteServer struct {
	*httptest.Server

	mu    sync.Mutex
	paths []string
}

func newSiteServer(t *testing.T, pages map[string]string) *siteServer {
	t.Helper()

	s := &siteServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.paths = append(s.paths, r.URL.Path)
		s.mu.Unlock()

		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *siteServer) requested(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.paths {
		if p == path {
			return true
		}
	}
	return false
}

func TestDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("sitemap from robots.txt skips probes", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/robots.txt":  "User-agent: *\nDisallow: /admin\nSitemap: https://example.com/sitemap_custom.xml\n",
			"/sitemap.xml": "<urlset/>",
		})

		d := NewDiscoverer(NewFetcher()).Discover(context.Background(), mustTarget(t, srv.URL+"/page"))

		if got := model.Deref(d.SitemapURL); got != "https://example.com/sitemap_custom.xml" {
			t.Errorf("expected sitemap from robots.txt, got %q", got)
		}
		if d.RobotsTxt == nil || !strings.Contains(*d.RobotsTxt, "Disallow: /admin") {
			t.Errorf("expected robots.txt content, got %v", d.RobotsTxt)
		}
		if srv.requested("/sitemap.xml") || srv.requested("/sitemap_index.xml") {
			t.Error("expected sitemap probes to be skipped")
		}
		if d.CrawlAllowed == nil || !*d.CrawlAllowed {
			t.Errorf("expected /page to be allowed, got %v", d.CrawlAllowed)
		}
	})

	t.Run("sitemap directive is case-insensitive", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/robots.txt": "user-agent: *\nsitemap:   https://example.com/lower.xml  \n",
		})

		d := NewDiscoverer(NewFetcher()).Discover(context.Background(), mustTarget(t, srv.URL))
		if got := model.Deref(d.SitemapURL); got != "https://example.com/lower.xml" {
			t.Errorf("expected trimmed sitemap, got %q", got)
		}
	})

	t.Run("disallowed path is reported", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nDisallow: /private\n",
		})

		d := NewDiscoverer(NewFetcher()).Discover(context.Background(), mustTarget(t, srv.URL+"/private/page"))
		if d.CrawlAllowed == nil || *d.CrawlAllowed {
			t.Errorf("expected crawl to be disallowed, got %v", d.CrawlAllowed)
		}
	})

	t.Run("robots without sitemap falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/robots.txt":  "User-agent: *\nAllow: /\n",
			"/sitemap.xml": "<urlset/>",
		})

		d := NewDiscoverer(NewFetcher()).Discover(context.Background(), mustTarget(t, srv.URL+"/deep/page"))
		if got := model.Deref(d.SitemapURL); got != srv.URL+"/sitemap.xml" {
			t.Errorf("expected %s/sitemap.xml, got %q", srv.URL, got)
		}
		if srv.requested("/sitemap_index.xml") {
			t.Error("expected sitemap_index.xml not to be probed after a hit")
		}
	})

	t.Run("sitemap_index.xml is second choice", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/sitemap_index.xml": "<sitemapindex/>",
		})

		d := NewDiscoverer(NewFetcher()).Discover(context.Background(), mustTarget(t, srv.URL))
		if got := model.Deref(d.SitemapURL); got != srv.URL+"/sitemap_index.xml" {
			t.Errorf("expected sitemap_index.xml, got %q", got)
		}
		if d.RobotsTxt != nil || d.CrawlAllowed != nil {
			t.Error("expected robots fields to be nil without robots.txt")
		}
	})

	t.Run("nothing found leaves every field nil", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{})

		d := NewDiscoverer(NewFetcher()).Discover(context.Background(), mustTarget(t, srv.URL))
		if d.RobotsTxt != nil || d.SitemapURL != nil || d.CrawlAllowed != nil {
			t.Errorf("expected empty discovery, got %+v", d)
		}
		for _, p := range []string{"/robots.txt", "/sitemap.xml", "/sitemap_index.xml"} {
			if !srv.requested(p) {
				t.Errorf("expected %s to be probed", p)
			}
		}
	})

	t.Run("robots.txt is limited to 1000 characters", func(t *testing.T) {
		t.Parallel()

		long := "User-agent: *\n" + strings.Repeat("Disallow: /ü\n", 300)
		srv := newSiteServer(t, map[string]string{"/robots.txt": long})

		d := NewDiscoverer(NewFetcher()).Discover(context.Background(), mustTarget(t, srv.URL))
		if d.RobotsTxt == nil {
			t.Fatal("expected robots.txt content")
		}
		if n := utf8.RuneCountInString(*d.RobotsTxt); n != model.MaxRobotsTxtRunes {
			t.Errorf("expected %d characters, got %d", model.MaxRobotsTxtRunes, n)
		}
	})

	t.Run("slow probes time out without failing", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		start := time.Now()
		d := NewDiscoverer(NewFetcher(), WithProbeTimeout(30*time.Millisecond)).
			Discover(context.Background(), mustTarget(t, srv.URL))
		if d.RobotsTxt != nil || d.SitemapURL != nil {
			t.Errorf("expected empty discovery, got %+v", d)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("expected probes to be bounded, took %v", elapsed)
		}
	})
}
