package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	tests := []struct {
		name string
		ok   bool
		msg  string
	}{
		{"fetch timeout is 30s", cfg.FetchTimeout == 30*time.Second, "FetchTimeout"},
		{"aux timeout is 5s", cfg.AuxTimeout == 5*time.Second, "AuxTimeout"},
		{"dns timeout is 5s", cfg.DNSTimeout == 5*time.Second, "DNSTimeout"},
		{"max redirects is 10", cfg.MaxRedirects == 10, "MaxRedirects"},
		{"max body size is 10MB", cfg.MaxBodySize == 10*1024*1024, "MaxBodySize"},
		{"batch size is 4", cfg.BatchSize == 4, "BatchSize"},
		{"listen addr is :8080", cfg.ListenAddr == ":8080", "ListenAddr"},
		{"user agent looks like a desktop browser", strings.Contains(cfg.UserAgent, "Chrome/"), "UserAgent"},
		{"site configs initialized", cfg.SiteConfigs != nil && cfg.SiteConfigs.Sites != nil, "SiteConfigs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !tt.ok {
				t.Errorf("unexpected default for %s: %+v", tt.msg, cfg)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, ErrInvalidTimeout},
		{"negative aux timeout", func(c *Config) { c.AuxTimeout = -time.Second }, ErrInvalidAuxTimeout},
		{"zero dns timeout", func(c *Config) { c.DNSTimeout = 0 }, ErrInvalidDNSTimeout},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"negative redirects", func(c *Config) { c.MaxRedirects = -1 }, ErrInvalidMaxRedirects},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"empty user agent", func(c *Config) { c.UserAgent = "" }, ErrEmptyUserAgent},
		{"json and markdown", func(c *Config) {
			c.JSONReport = true
			c.MarkdownReport = true
		}, ErrConflictingReportFormats},
		{"zero redirects is allowed", func(c *Config) { c.MaxRedirects = 0 }, nil},
		{"json only is allowed", func(c *Config) { c.JSONReport = true }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigValidateTargets(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if err := cfg.ValidateTargets(); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected ErrNoTarget, got %v", err)
	}

	cfg.Targets = []string{"example.com"}
	if err := cfg.ValidateTargets(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			UserAgent: "default-agent",
			Headers:   map[string]string{"Accept-Language": "en"},
		},
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:  "session=abc",
				Headers: map[string]string{"X-Test": "1"},
			},
			"WWW.Other.org": {
				UserAgent: "other-agent",
			},
		},
	}

	t.Run("exact match merges over defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.GetSiteConfig("example.com")
		if sc.UserAgent != "default-agent" {
			t.Errorf("expected default-agent, got %q", sc.UserAgent)
		}
		if sc.Cookie != "session=abc" {
			t.Errorf("expected session=abc, got %q", sc.Cookie)
		}
		if sc.Headers["Accept-Language"] != "en" || sc.Headers["X-Test"] != "1" {
			t.Errorf("expected merged headers, got %v", sc.Headers)
		}
	})

	t.Run("key lookup ignores case and www", func(t *testing.T) {
		t.Parallel()

		sc := cf.GetSiteConfig("other.org")
		if sc.UserAgent != "other-agent" {
			t.Errorf("expected other-agent, got %q", sc.UserAgent)
		}
	})

	t.Run("unknown domain gets defaults", func(t *testing.T) {
		t.Parallel()

		sc := cf.GetSiteConfig("unknown.net")
		if sc.UserAgent != "default-agent" || sc.Cookie != "" {
			t.Errorf("expected defaults only, got %+v", sc)
		}
	})

	t.Run("merging does not mutate defaults", func(t *testing.T) {
		t.Parallel()

		_ = cf.GetSiteConfig("example.com")
		if _, ok := cf.Defaults.Headers["X-Test"]; ok {
			t.Error("expected default headers to stay untouched")
		}
	})

	t.Run("nil file returns zero value", func(t *testing.T) {
		t.Parallel()

		var nilFile *File
		sc := nilFile.GetSiteConfig("example.com")
		if sc.UserAgent != "" || sc.Cookie != "" || sc.Headers != nil {
			t.Errorf("expected zero SiteConfig, got %+v", sc)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads valid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".seolens")
		content := `defaults:
  userAgent: "custom-agent"
sites:
  example.com:
    cookie: "a=b"
    headers:
      X-Token: "secret"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Defaults.UserAgent != "custom-agent" {
			t.Errorf("expected custom-agent, got %q", cf.Defaults.UserAgent)
		}
		site, ok := cf.Sites["example.com"]
		if !ok {
			t.Fatal("expected example.com entry")
		}
		if site.Cookie != "a=b" || site.Headers["X-Token"] != "secret" {
			t.Errorf("unexpected site entry: %+v", site)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("sites: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		_, err := LoadConfigFile(path)
		if err == nil || errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected YAML error, got %v", err)
		}
	})

	t.Run("empty file initializes Sites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(path, []byte("defaults: {}\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		got := FindConfigFile("")
		if filepath.Base(got) != DefaultConfigFile {
			t.Errorf("expected %s in cwd, got %q", DefaultConfigFile, got)
		}
	})
}

func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if dir == "" {
		t.Fatal("expected non-empty XDG config dir")
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("expected dir to end with %s, got %s", AppName, dir)
	}
	if filepath.Dir(XDGConfigFile()) != dir {
		t.Errorf("expected config file inside %s, got %s", dir, XDGConfigFile())
	}
}
