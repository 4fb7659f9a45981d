package config

import "strings"

// SiteConfig holds request settings for one site.
type SiteConfig struct {
	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Cookie is sent with the page request.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent with the page request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .seolens configuration file.
type File struct {
	// Sites maps a domain (without "www." and without scheme) to its settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// NewFile returns an empty File with an initialized Sites map.
func NewFile() *File {
	return &File{Sites: make(map[string]SiteConfig)}
}

// GetSiteConfig returns the settings for domain, merged over the defaults.
// Lookup is case-insensitive and ignores a leading "www." in the key.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}

	result := SiteConfig{
		UserAgent: cf.Defaults.UserAgent,
		Cookie:    cf.Defaults.Cookie,
	}
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	site, ok := cf.lookup(domain)
	if !ok {
		return result
	}

	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}

	return result
}

// lookup finds the site entry for domain.
func (cf *File) lookup(domain string) (SiteConfig, bool) {
	if site, ok := cf.Sites[domain]; ok {
		return site, true
	}
	want := normalizeSiteKey(domain)
	for key, site := range cf.Sites {
		if normalizeSiteKey(key) == want {
			return site, true
		}
	}
	return SiteConfig{}, false
}

// normalizeSiteKey lowercases key and drops a scheme and leading "www.".
func normalizeSiteKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, prefix := range []string{"http://", "https://"} {
		key = strings.TrimPrefix(key, prefix)
	}
	key = strings.TrimSuffix(key, "/")
	return strings.TrimPrefix(key, "www.")
}
