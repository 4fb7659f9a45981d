package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// defaultScheme is prepended to user input that carries no scheme.
const defaultScheme = "https://"

// Target is the normalized form of a crawl request.
// It is derived once by NormalizeTarget and never modified afterwards;
// accessors hand out copies so callers cannot mutate the shared URL.
type Target struct {
	// u is the absolute URL with scheme.
	u *url.URL

	// domain is the hostname with a single leading "www." removed.
	domain string
}

// NormalizeTarget turns user input into a Target.
//
// Input without a scheme gets "https://" prepended; input that already has a
// scheme keeps it. The result must be an absolute http(s) URL with a host,
// otherwise a *CrawlError of kind KindInvalidURL is returned.
func NormalizeTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, &CrawlError{Kind: KindInvalidURL, Err: errors.New("empty URL")}
	}

	normalized := raw
	if !hasScheme(raw) {
		normalized = defaultScheme + raw
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return Target{}, &CrawlError{Kind: KindInvalidURL, URL: normalized, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, &CrawlError{
			Kind: KindInvalidURL,
			URL:  normalized,
			Err:  fmt.Errorf("unsupported scheme %q", u.Scheme),
		}
	}
	if u.Hostname() == "" {
		return Target{}, &CrawlError{Kind: KindInvalidURL, URL: normalized, Err: errors.New("missing host")}
	}

	return Target{u: u, domain: StripWWW(u.Hostname())}, nil
}

// hasScheme reports whether raw starts with "<scheme>://".
func hasScheme(raw string) bool {
	idx := strings.Index(raw, "://")
	if idx <= 0 {
		return false
	}
	for i, r := range raw[:idx] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// StripWWW removes a single leading "www." (any case) from host.
func StripWWW(host string) string {
	if len(host) >= 4 && strings.EqualFold(host[:4], "www.") {
		return host[4:]
	}
	return host
}

// URL returns a copy of the normalized absolute URL.
func (t Target) URL() *url.URL {
	if t.u == nil {
		return nil
	}
	c := *t.u
	return &c
}

// String returns the normalized URL as a string.
func (t Target) String() string {
	if t.u == nil {
		return ""
	}
	return t.u.String()
}

// Domain returns the www-stripped hostname.
func (t Target) Domain() string {
	return t.domain
}

// IsZero reports whether t was never populated by NormalizeTarget.
func (t Target) IsZero() bool {
	return t.u == nil
}

// Resolve resolves ref against the normalized URL.
func (t Target) Resolve(ref string) (*url.URL, error) {
	if t.u == nil {
		return nil, errors.New("resolve against empty target")
	}
	return t.u.Parse(ref)
}

// SiteURL returns scheme://host followed by the absolute path p.
// It is used to address well-known files such as /robots.txt.
func (t Target) SiteURL(p string) string {
	if t.u == nil {
		return ""
	}
	root := &url.URL{Scheme: t.u.Scheme, Host: t.u.Host, Path: p}
	return root.String()
}

// IsInternal reports whether host belongs to the target domain once a
// leading "www." is removed from both sides.
func (t Target) IsInternal(host string) bool {
	return strings.EqualFold(StripWWW(host), t.domain)
}
