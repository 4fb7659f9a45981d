package model

import "time"

// FetchOutcome is the result of fetching the target page.
// It exists only for the duration of one crawl.
type FetchOutcome struct {
	// StatusCode is the status of the final response after redirects.
	StatusCode int

	// LoadTime is the wall-clock time spent on the request and body read.
	LoadTime time.Duration

	// HTML is the response body decoded to UTF-8.
	HTML string

	// FinalURL is the URL of the final response.
	FinalURL string

	// ContentType is the Content-Type header of the final response.
	ContentType string
}

// LoadTimeMillis returns LoadTime in whole milliseconds.
func (o *FetchOutcome) LoadTimeMillis() int64 {
	return o.LoadTime.Milliseconds()
}

// Crawl is the state of a single crawl request as it moves through the
// pipeline. Each request builds its own Crawl; nothing in it is shared.
type Crawl struct {
	// Input is the raw user-supplied URL.
	Input string

	// Target is set by NormalizeTarget before the pipeline runs.
	Target Target

	// Outcome is set by the fetch step.
	Outcome *FetchOutcome

	// Result is set by the extract step and enriched by discovery.
	Result *Result

	// Err is the error that stopped the pipeline, if any.
	Err error

	// StartedAt is when the crawl began.
	StartedAt time.Time

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string
}

// NewCrawl creates the state for crawling input.
func NewCrawl(input string) *Crawl {
	return &Crawl{
		Input:          input,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether the crawl ended with an error.
func (c *Crawl) Failed() bool {
	return c.Err != nil
}
