// Package pipeline runs a crawl as an ordered list of steps.
//
// A crawl moves through four steps, each reading and extending the
// per-request model.Crawl:
//
//	resolve  -> the domain must have at least one DNS record
//	fetch    -> one bounded GET of the page
//	extract  -> title, meta, links, images, headings, text preview
//	discover -> robots.txt and sitemap, best effort
//
// The pipeline stops at the first step that returns an error, so a domain
// that does not resolve is never fetched and a failed fetch is never
// extracted. Service wires the steps from a config.Config and exposes
// CrawlSite; BatchProcessor runs several crawls concurrently with errgroup,
// each with its own pipeline and state.
package pipeline
