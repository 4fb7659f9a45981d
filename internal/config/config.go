package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultFetchTimeout bounds the primary page fetch, including redirects
	// and reading the body.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultAuxTimeout bounds each robots.txt and sitemap probe.
	DefaultAuxTimeout = 5 * time.Second

	// DefaultDNSTimeout bounds each individual DNS lookup.
	DefaultDNSTimeout = 5 * time.Second

	// DefaultMaxRedirects is the number of redirects followed before the
	// fetch gives up.
	DefaultMaxRedirects = 10

	// DefaultBatchSize is the number of concurrent crawls when several
	// URLs are given on the command line.
	DefaultBatchSize = 4

	// DefaultListenAddr is the address the HTTP API listens on.
	DefaultListenAddr = ":8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "seolens"

	// DefaultUserAgent is a desktop browser User-Agent. Many sites serve
	// reduced or blocked content to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultMaxBodySize limits the page body read by the fetcher.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for seolens.
// It is populated from CLI flags and passed down explicitly; there is no
// global configuration state.
type Config struct {
	// FetchTimeout bounds the primary page fetch.
	FetchTimeout time.Duration

	// AuxTimeout bounds each robots.txt and sitemap probe.
	AuxTimeout time.Duration

	// DNSTimeout bounds each DNS lookup of the existence check.
	DNSTimeout time.Duration

	// DNSServer is the "host:port" of the server used for ANY queries.
	// Empty means the first nameserver in /etc/resolv.conf.
	DNSServer string

	// MaxRedirects is the redirect limit of the page fetch.
	MaxRedirects int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum page body size in bytes.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// BatchSize is the number of concurrent crawls for multiple targets.
	BatchSize int

	// ListenAddr is the address of the HTTP API server.
	ListenAddr string

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// SiteConfigs holds the per-site settings loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// Targets is the list of URLs to crawl.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		FetchTimeout: DefaultFetchTimeout,
		AuxTimeout:   DefaultAuxTimeout,
		DNSTimeout:   DefaultDNSTimeout,
		MaxRedirects: DefaultMaxRedirects,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		BatchSize:    DefaultBatchSize,
		ListenAddr:   DefaultListenAddr,
		SiteConfigs:  NewFile(),
	}
}

// XDGConfigDir returns the XDG config directory for seolens.
// On Linux: ~/.config/seolens
// On macOS: ~/Library/Application Support/seolens
// On Windows: %APPDATA%\seolens
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the path of the config file inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// Validate checks the settings that every command relies on.
// Target presence is checked separately by ValidateTargets because the
// serve command has none.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.AuxTimeout <= 0 {
		return ErrInvalidAuxTimeout
	}
	if c.DNSTimeout <= 0 {
		return ErrInvalidDNSTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.UserAgent == "" {
		return ErrEmptyUserAgent
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ValidateTargets checks that at least one target was given.
func (c *Config) ValidateTargets() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return nil
}
