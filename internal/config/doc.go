// Package config provides configuration structures and utilities for seolens.
// It defines crawl timeouts and limits, HTTP server settings, report output
// preferences, and the optional YAML file with per-site request settings.
package config
