package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/seolens/internal/config"
)

// addCrawlerFlags registers the flags shared by crawl and serve.
func addCrawlerFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for the page fetch, including redirects")
	cmd.Flags().Duration("aux-timeout", config.DefaultAuxTimeout,
		"Timeout for each robots.txt and sitemap probe")
	cmd.Flags().Duration("dns-timeout", config.DefaultDNSTimeout,
		"Timeout for each DNS lookup of the domain check")
	cmd.Flags().String("dns-server", "",
		"DNS server (host:port) for ANY queries (default: first nameserver in /etc/resolv.conf)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int("max-redirects", config.DefaultMaxRedirects,
		"Maximum number of redirects to follow")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum page body size in bytes")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seolens in current directory, XDG config dir or home)")
}

// buildConfig creates a Config from the crawler flags and loads the
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.FetchTimeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.AuxTimeout, err = flags.GetDuration("aux-timeout"); err != nil {
		return nil, err
	}
	if cfg.DNSTimeout, err = flags.GetDuration("dns-timeout"); err != nil {
		return nil, err
	}
	if cfg.DNSServer, err = flags.GetString("dns-server"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxRedirects, err = flags.GetInt("max-redirects"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// An explicit --config must exist; the implicit search may find nothing.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}
