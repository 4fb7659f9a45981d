package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a crawl failed.
// Each kind maps to a severity category that callers render to the user
// (bad input, not found, timeout, unreachable, upstream status, internal).
type ErrorKind int

const (
	// KindInternal covers any failure that has no more specific kind,
	// including transport errors that are neither timeouts nor refusals.
	KindInternal ErrorKind = iota

	// KindInvalidURL means the user input could not be parsed as an http(s) URL.
	// The user must resubmit; retrying the same input cannot succeed.
	KindInvalidURL

	// KindDomainNotFound means no resolver returned a record for the domain.
	// The crawl stops before any HTTP request is made.
	KindDomainNotFound

	// KindFetchTimeout means the primary page fetch exceeded its timeout.
	KindFetchTimeout

	// KindUnreachable means the connection could not be established
	// (refused, host or network unreachable).
	KindUnreachable

	// KindNonSuccessStatus means the page answered with a non-2xx status
	// after redirects were followed.
	KindNonSuccessStatus

	// KindAuxiliaryFetchFailed marks a failed robots.txt or sitemap probe.
	// It is only ever logged; it never reaches a caller.
	KindAuxiliaryFetchFailed
)

// Sentinel errors, one per ErrorKind, for use with errors.Is.
var (
	// ErrInternal matches any *CrawlError of kind KindInternal.
	ErrInternal = errors.New("failed to crawl website")
	// ErrInvalidURL matches any *CrawlError of kind KindInvalidURL.
	ErrInvalidURL = errors.New("invalid URL format")
	// ErrDomainNotFound matches any *CrawlError of kind KindDomainNotFound.
	ErrDomainNotFound = errors.New("domain does not exist or has no DNS records")
	// ErrFetchTimeout matches any *CrawlError of kind KindFetchTimeout.
	ErrFetchTimeout = errors.New("request timeout: the website took too long to respond")
	// ErrUnreachable matches any *CrawlError of kind KindUnreachable.
	ErrUnreachable = errors.New("cannot connect to the website: it may be down or unreachable")
	// ErrNonSuccessStatus matches any *CrawlError of kind KindNonSuccessStatus.
	ErrNonSuccessStatus = errors.New("website returned a non-success status")
	// ErrAuxiliaryFetchFailed matches a failed robots.txt or sitemap probe.
	ErrAuxiliaryFetchFailed = errors.New("auxiliary fetch failed")
)

// String returns a short identifier for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindInvalidURL:
		return "invalid-url"
	case KindDomainNotFound:
		return "domain-not-found"
	case KindFetchTimeout:
		return "fetch-timeout"
	case KindUnreachable:
		return "unreachable"
	case KindNonSuccessStatus:
		return "non-success-status"
	case KindAuxiliaryFetchFailed:
		return "auxiliary-fetch-failed"
	default:
		return "unknown"
	}
}

// Sentinel returns the package-level sentinel error for the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindInvalidURL:
		return ErrInvalidURL
	case KindDomainNotFound:
		return ErrDomainNotFound
	case KindFetchTimeout:
		return ErrFetchTimeout
	case KindUnreachable:
		return ErrUnreachable
	case KindNonSuccessStatus:
		return ErrNonSuccessStatus
	case KindAuxiliaryFetchFailed:
		return ErrAuxiliaryFetchFailed
	default:
		return ErrInternal
	}
}

// HTTPStatus returns the HTTP status code used to report the kind.
// KindNonSuccessStatus has no fixed code; CrawlError.HTTPStatus forwards
// the upstream status instead and this method returns 502 as a fallback.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindInvalidURL:
		return http.StatusBadRequest
	case KindDomainNotFound:
		return http.StatusNotFound
	case KindFetchTimeout:
		return http.StatusRequestTimeout
	case KindUnreachable:
		return http.StatusServiceUnavailable
	case KindNonSuccessStatus:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CrawlError is the error returned by a failed crawl.
// It carries enough detail for a caller to render a specific message.
type CrawlError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the normalized URL, when normalization got that far.
	URL string

	// Domain is the www-stripped domain, when known.
	Domain string

	// StatusCode is the upstream HTTP status for KindNonSuccessStatus.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CrawlError) Error() string {
	var msg string
	switch e.Kind {
	case KindDomainNotFound:
		msg = fmt.Sprintf("domain %s does not exist or has no DNS records", e.Domain)
	case KindNonSuccessStatus:
		msg = fmt.Sprintf("website returned status %d", e.StatusCode)
	default:
		msg = e.Kind.Sentinel().Error()
	}

	if e.Err != nil && e.Kind != KindFetchTimeout && e.Kind != KindUnreachable {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *CrawlError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// HTTPStatus returns the status code to report for this error.
func (e *CrawlError) HTTPStatus() int {
	if e.Kind == KindNonSuccessStatus && e.StatusCode >= 100 {
		return e.StatusCode
	}
	return e.Kind.HTTPStatus()
}

// KindOf extracts the ErrorKind from err.
// Errors that are not a *CrawlError are reported as KindInternal.
func KindOf(err error) ErrorKind {
	var ce *CrawlError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}
