// Package model defines the data structures shared by the seolens packages.
//
// This package contains the following main types:
//   - Target: a normalized crawl target (absolute URL plus www-stripped domain)
//   - FetchOutcome: the ephemeral result of fetching the target page
//   - Result: the extraction record returned to callers
//   - Crawl: the per-request state threaded through the pipeline
//   - CrawlError: the typed error carrying an ErrorKind
//
// Every type here lives for a single crawl request. Nothing is cached or
// shared between requests.
package model
