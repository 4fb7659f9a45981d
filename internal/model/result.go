package model

import "time"

// Output limits of the extraction record. They bound the returned lists
// and strings only; reported totals always count everything discovered.
const (
	// MaxInternalLinks caps Links.InternalLinks.
	MaxInternalLinks = 50
	// MaxExternalLinks caps Links.ExternalLinks.
	MaxExternalLinks = 50
	// MaxImages caps Images.Images.
	MaxImages = 20
	// MaxTextPreviewRunes caps Result.TextPreview.
	MaxTextPreviewRunes = 500
	// MaxRobotsTxtRunes caps Result.RobotsTxt.
	MaxRobotsTxtRunes = 1000
)

// Result is the extraction record for one crawled page.
// Optional values are pointers so that absence serializes as JSON null.
type Result struct {
	// URL is the normalized request URL.
	URL string `json:"url"`

	// FinalURL is the URL of the final response after redirects.
	FinalURL string `json:"finalUrl"`

	// Domain is the www-stripped hostname of URL.
	Domain string `json:"domain"`

	// StatusCode is the HTTP status of the final response.
	StatusCode int `json:"statusCode"`

	// LoadTime is the wall-clock fetch duration in milliseconds.
	LoadTime int64 `json:"loadTime"`

	// Title is the trimmed text of the first <title> element.
	Title *string `json:"title"`

	// Meta holds the description, keywords and Open Graph values.
	Meta Meta `json:"meta"`

	// Links summarizes the anchors on the page.
	Links LinkSummary `json:"links"`

	// Images summarizes the <img> elements on the page.
	Images ImageSummary `json:"images"`

	// Headings lists h1, h2 and h3 texts in document order.
	Headings Headings `json:"headings"`

	// TextPreview is the whitespace-collapsed body text, at most
	// MaxTextPreviewRunes characters long.
	TextPreview string `json:"textPreview"`

	// RobotsTxt is the beginning of /robots.txt, when it could be fetched.
	RobotsTxt *string `json:"robotsTxt"`

	// SitemapURL is the discovered sitemap location, if any.
	SitemapURL *string `json:"sitemapUrl"`

	// CrawlAllowed reports whether robots.txt allows the configured user
	// agent to fetch the page path. Nil when robots.txt was not available.
	CrawlAllowed *bool `json:"crawlAllowed"`

	// CrawledAt is when the crawl started.
	CrawledAt time.Time `json:"crawledAt"`
}

// Meta holds the document-level meta tags.
type Meta struct {
	Description *string   `json:"description"`
	Keywords    *string   `json:"keywords"`
	OpenGraph   OpenGraph `json:"og"`
}

// OpenGraph holds the og:* properties used for social link previews.
type OpenGraph struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	URL         *string `json:"url"`
}

// LinkSummary describes every anchor that resolved to an absolute URL.
// Internal + External always equals Total.
type LinkSummary struct {
	Total         int      `json:"total"`
	Internal      int      `json:"internal"`
	External      int      `json:"external"`
	InternalLinks []string `json:"internalLinks"`
	ExternalLinks []string `json:"externalLinks"`
}

// ImageSummary describes every image whose source resolved.
type ImageSummary struct {
	Total  int     `json:"total"`
	Images []Image `json:"images"`
}

// Image is a single resolved image reference.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Headings holds the trimmed heading texts, unbounded.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
}

// NewResult creates a Result for target with every list initialized,
// so that empty lists serialize as [] rather than null.
func NewResult(target Target) *Result {
	return &Result{
		URL:    target.String(),
		Domain: target.Domain(),
		Links: LinkSummary{
			InternalLinks: make([]string, 0),
			ExternalLinks: make([]string, 0),
		},
		Images: ImageSummary{
			Images: make([]Image, 0),
		},
		Headings: Headings{
			H1: make([]string, 0),
			H2: make([]string, 0),
			H3: make([]string, 0),
		},
	}
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *s, or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
