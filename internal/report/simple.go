package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/seolens/internal/model"
)

const ruleWidth = 70

// SimpleWriter writes plain-text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose lists every link and image instead of counts only.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists links and images in full.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter writing to output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders result.
func (w *SimpleWriter) Write(r *model.Result) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, r.URL)

	fmt.Fprintf(&sb, "Domain:       %s\n", r.Domain)
	if r.FinalURL != "" && r.FinalURL != r.URL {
		fmt.Fprintf(&sb, "Final URL:    %s\n", r.FinalURL)
	}
	fmt.Fprintf(&sb, "Status:       %d\n", r.StatusCode)
	fmt.Fprintf(&sb, "Load Time:    %d ms\n", r.LoadTime)
	fmt.Fprintf(&sb, "Crawled At:   %s\n", r.CrawledAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Title:        %s\n", orDash(model.Deref(r.Title)))
	fmt.Fprintf(&sb, "Description:  %s\n", orDash(model.Deref(r.Meta.Description)))
	fmt.Fprintf(&sb, "Keywords:     %s\n", orDash(model.Deref(r.Meta.Keywords)))
	sb.WriteString("\n")

	writeSection(&sb, "OPEN GRAPH")
	fmt.Fprintf(&sb, "  og:title        %s\n", orDash(model.Deref(r.Meta.OpenGraph.Title)))
	fmt.Fprintf(&sb, "  og:description  %s\n", orDash(model.Deref(r.Meta.OpenGraph.Description)))
	fmt.Fprintf(&sb, "  og:image        %s\n", orDash(model.Deref(r.Meta.OpenGraph.Image)))
	fmt.Fprintf(&sb, "  og:url          %s\n", orDash(model.Deref(r.Meta.OpenGraph.URL)))
	sb.WriteString("\n")

	writeSection(&sb, "LINKS")
	fmt.Fprintf(&sb, "  Total: %d  Internal: %d  External: %d\n", r.Links.Total, r.Links.Internal, r.Links.External)
	if w.verbose {
		for _, l := range r.Links.InternalLinks {
			fmt.Fprintf(&sb, "  [int] %s\n", l)
		}
		for _, l := range r.Links.ExternalLinks {
			fmt.Fprintf(&sb, "  [ext] %s\n", l)
		}
	}
	sb.WriteString("\n")

	writeSection(&sb, "IMAGES")
	fmt.Fprintf(&sb, "  Total: %d\n", r.Images.Total)
	if w.verbose {
		for _, img := range r.Images.Images {
			fmt.Fprintf(&sb, "  %s (alt: %s)\n", img.Src, orDash(img.Alt))
		}
	}
	sb.WriteString("\n")

	writeSection(&sb, "HEADINGS")
	for _, h := range []struct {
		tag   string
		texts []string
	}{{"h1", r.Headings.H1}, {"h2", r.Headings.H2}, {"h3", r.Headings.H3}} {
		for _, text := range h.texts {
			fmt.Fprintf(&sb, "  %s  %s\n", h.tag, text)
		}
	}
	sb.WriteString("\n")

	writeSection(&sb, "CRAWLABILITY")
	robots := "not found"
	if r.RobotsTxt != nil {
		robots = "found"
	}
	fmt.Fprintf(&sb, "  robots.txt:     %s\n", robots)
	fmt.Fprintf(&sb, "  Sitemap:        %s\n", orDash(model.Deref(r.SitemapURL)))
	if r.CrawlAllowed != nil {
		fmt.Fprintf(&sb, "  Crawl allowed:  %t\n", *r.CrawlAllowed)
	}
	sb.WriteString("\n")

	if r.TextPreview != "" {
		writeSection(&sb, "TEXT PREVIEW")
		sb.WriteString(r.TextPreview)
		sb.WriteString("\n\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteFailure renders failure.
func (w *SimpleWriter) WriteFailure(f *Failure) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, f.Input)
	fmt.Fprintf(&sb, "Status:       ERROR (%s)\n", f.Category())
	fmt.Fprintf(&sb, "Message:      %s\n", f.Error)
	if f.URL != "" {
		fmt.Fprintf(&sb, "URL:          %s\n", f.URL)
	}
	if f.StatusCode != 0 {
		fmt.Fprintf(&sb, "HTTP Status:  %d\n", f.StatusCode)
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func writeBanner(sb *strings.Builder, subject string) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "SEO CRAWL: %s\n", subject)
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}
