package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/seolens/internal/log"
)

// NewRootCmd creates the root command for seolens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seolens",
		Short: "Fetch a web page and extract its SEO-relevant data",
		Long: `seolens fetches a single web page and extracts the data a search engine
looks at: title, meta description and keywords, Open Graph tags, internal and
external links, images, headings, a text preview, robots.txt and the sitemap URL.

The domain is checked in DNS before any request is made. robots.txt and
sitemap probes are best-effort and never fail a crawl.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", "",
		"Log format: console, text or json (default: console for crawl, json for serve)")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// lookupFlag finds name among the command's own and inherited flags.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	f := lookupFlag(cmd, "verbose")
	if f == nil {
		return false
	}
	return f.Value.String() == "true"
}

// setupLogger builds the command logger. defaultFormat applies when
// --log-format is not set.
func setupLogger(cmd *cobra.Command, w io.Writer, defaultFormat string) (*slog.Logger, error) {
	format := defaultFormat
	if f := lookupFlag(cmd, "log-format"); f != nil && f.Value.String() != "" {
		format = f.Value.String()
	}
	return log.NewLogger(format, w, getVerboseFlag(cmd))
}
