// Package server exposes single-page crawls over HTTP.
//
// Endpoints:
//
//	GET /api/crawl?url=<url>   crawl one page and return its Result as JSON
//	GET /healthz               liveness probe, always "ok"
//
// Failed crawls answer with a JSON body {"error", "url", "statusCode"} and
// the HTTP status mapped from the failure kind.
package server
