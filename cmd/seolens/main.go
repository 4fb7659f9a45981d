// Package main provides the entry point for the seolens CLI.
//
// seolens fetches a single web page and reports what a search engine sees
// on it: title, meta and Open Graph tags, links, images, headings, a text
// preview, robots.txt and the sitemap location.
//
// Usage:
//
//	seolens crawl example.com
//	seolens crawl --json https://example.com/about
//	seolens serve --addr :8080
//
// See --help for all available options.
package main

func main() {
	Execute()
}
