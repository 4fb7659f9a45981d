// Package report renders crawl results and crawl failures.
//
// Three formats are provided:
//   - JSONWriter: the same shape the HTTP API returns
//   - MarkdownWriter: tables and a link distribution chart for sharing
//   - SimpleWriter: plain text for the terminal
//
// Failures are rendered from a Failure, which is also the JSON error body of
// the HTTP API: {"error": ..., "url": ..., "statusCode": ...}.
package report
