package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.ValidateTargets. Callers match them with errors.Is.
var (
	// ErrNoTarget is returned when the crawl command gets no URL.
	ErrNoTarget = errors.New("no target specified: provide at least one URL")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidAuxTimeout is returned when the robots/sitemap timeout is not positive.
	ErrInvalidAuxTimeout = errors.New("invalid auxiliary timeout: must be positive")

	// ErrInvalidDNSTimeout is returned when the DNS timeout is not positive.
	ErrInvalidDNSTimeout = errors.New("invalid DNS timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxRedirects is returned when the redirect limit is negative.
	ErrInvalidMaxRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Zero selects the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrEmptyUserAgent is returned when the User-Agent is empty.
	ErrEmptyUserAgent = errors.New("invalid user agent: must not be empty")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
