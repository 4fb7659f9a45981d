// Package crawler fetches a single page and extracts its SEO-relevant data.
//
// # Components
//
//   - Fetcher: one bounded GET for the page, with redirect and body limits,
//     charset decoding and per-site headers from the config file
//   - Extractor: goquery-based extraction of title, meta and Open Graph tags,
//     links, images, headings and a text preview
//   - Discoverer: best-effort robots.txt and sitemap probes
//
// # Failure handling
//
// Fetcher.Fetch classifies transport failures into *model.CrawlError kinds
// (timeout, unreachable, internal) and reports non-2xx responses as
// model.KindNonSuccessStatus. The Extractor never fails on a single bad link
// or image; it skips it. The Discoverer never fails at all: a probe that
// errors leaves its field nil.
//
// # Usage
//
//	fetcher := crawler.NewFetcher(crawler.WithFetchTimeout(30 * time.Second))
//	outcome, err := fetcher.Fetch(ctx, target)
//	if err != nil {
//	    return err
//	}
//	result := model.NewResult(target)
//	if err := crawler.NewExtractor().Extract(outcome.HTML, target, result); err != nil {
//	    return err
//	}
//	found := crawler.NewDiscoverer(fetcher).Discover(ctx, target)
package crawler
