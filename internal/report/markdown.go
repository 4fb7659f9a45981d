package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/seolens/internal/model"
)

// MarkdownWriter writes results as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders result.
func (w *MarkdownWriter) Write(result *model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeMeta(md, result)
	w.writeLinks(md, result)
	w.writeImages(md, result)
	w.writeHeadings(md, result)
	w.writeDiscovery(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteFailure renders failure as a caution alert.
func (w *MarkdownWriter) WriteFailure(failure *Failure) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("SEO Crawl Report")
	md.PlainText("")

	rows := [][]string{
		{"Input", "`" + failure.Input + "`"},
		{"Category", failure.Category()},
	}
	if failure.URL != "" {
		rows = append(rows, []string{"URL", failure.URL})
	}
	if failure.StatusCode != 0 {
		rows = append(rows, []string{"Status", strconv.Itoa(failure.StatusCode)})
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")
	md.Cautionf("%s", failure.Error)
	md.PlainText("")
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, r *model.Result) {
	md.H1("SEO Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", r.URL},
			{"Final URL", orDash(r.FinalURL)},
			{"Domain", "`" + r.Domain + "`"},
			{"Status", strconv.Itoa(r.StatusCode)},
			{"Load Time", strconv.FormatInt(r.LoadTime, 10) + " ms"},
			{"Crawled At", r.CrawledAt.Format(time.RFC3339)},
			{"Title", orDash(model.Deref(r.Title))},
		},
	})
	md.PlainText("")

	if r.Title == nil {
		md.Warningf("The page has no title.")
		md.PlainText("")
	}
	if r.Meta.Description == nil {
		md.Note("The page has no meta description.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeMeta(md *markdown.Markdown, r *model.Result) {
	md.H2("Meta Tags")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Tag", "Content"},
		Rows: [][]string{
			{"description", orDash(model.Deref(r.Meta.Description))},
			{"keywords", orDash(model.Deref(r.Meta.Keywords))},
			{"og:title", orDash(model.Deref(r.Meta.OpenGraph.Title))},
			{"og:description", orDash(model.Deref(r.Meta.OpenGraph.Description))},
			{"og:image", orDash(model.Deref(r.Meta.OpenGraph.Image))},
			{"og:url", orDash(model.Deref(r.Meta.OpenGraph.URL))},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, r *model.Result) {
	md.H2("Links")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Internal", strconv.Itoa(r.Links.Internal)},
			{"External", strconv.Itoa(r.Links.External)},
			{"**Total**", "**" + strconv.Itoa(r.Links.Total) + "**"},
		},
	})
	md.PlainText("")

	if r.Links.Total == 0 {
		md.PlainText("No links found.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Link Distribution"),
		piechart.WithShowData(true),
	)
	if r.Links.Internal > 0 {
		chart.LabelAndIntValue("Internal", uint64(r.Links.Internal))
	}
	if r.Links.External > 0 {
		chart.LabelAndIntValue("External", uint64(r.Links.External))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	if len(r.Links.InternalLinks) > 0 {
		md.PlainText("### Internal Links")
		md.PlainText("")
		md.BulletList(r.Links.InternalLinks...)
		md.PlainText("")
	}
	if len(r.Links.ExternalLinks) > 0 {
		md.PlainText("### External Links")
		md.PlainText("")
		md.BulletList(r.Links.ExternalLinks...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeImages(md *markdown.Markdown, r *model.Result) {
	md.H2("Images")
	md.PlainText("")

	if r.Images.Total == 0 {
		md.PlainText("No images found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(r.Images.Images))
	missingAlt := 0
	for i, img := range r.Images.Images {
		if img.Alt == "" {
			missingAlt++
		}
		rows[i] = []string{truncateString(img.Src, 80), orDash(img.Alt)}
	}
	md.Table(markdown.TableSet{Header: []string{"Source", "Alt"}, Rows: rows})
	md.PlainText("")

	if len(r.Images.Images) < r.Images.Total {
		md.PlainTextf("Showing %d of %d images.", len(r.Images.Images), r.Images.Total)
		md.PlainText("")
	}
	if missingAlt > 0 {
		md.Importantf("%d image(s) have no alt text.", missingAlt)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeHeadings(md *markdown.Markdown, r *model.Result) {
	md.H2("Headings")
	md.PlainText("")

	levels := []struct {
		name  string
		texts []string
	}{
		{"h1", r.Headings.H1},
		{"h2", r.Headings.H2},
		{"h3", r.Headings.H3},
	}

	rows := make([][]string, 0)
	for _, lv := range levels {
		for _, text := range lv.texts {
			rows = append(rows, []string{lv.name, orDash(text)})
		}
	}
	if len(rows) == 0 {
		md.PlainText("No headings found.")
		md.PlainText("")
	} else {
		md.Table(markdown.TableSet{Header: []string{"Level", "Text"}, Rows: rows})
		md.PlainText("")
	}

	if len(r.Headings.H1) != 1 {
		md.Warningf("The page has %d h1 heading(s); one is recommended.", len(r.Headings.H1))
		md.PlainText("")
	}

	if r.TextPreview != "" {
		md.H2("Text Preview")
		md.PlainText("")
		md.PlainText(r.TextPreview)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeDiscovery(md *markdown.Markdown, r *model.Result) {
	md.H2("Crawlability")
	md.PlainText("")

	allowed := "-"
	if r.CrawlAllowed != nil {
		allowed = strconv.FormatBool(*r.CrawlAllowed)
	}
	robots := "not found"
	if r.RobotsTxt != nil {
		robots = "found"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"robots.txt", robots},
			{"Sitemap", orDash(model.Deref(r.SitemapURL))},
			{"Crawl Allowed", allowed},
		},
	})
	md.PlainText("")

	if r.CrawlAllowed != nil && !*r.CrawlAllowed {
		md.Cautionf("robots.txt disallows this page for the configured user agent.")
		md.PlainText("")
	}
	if r.SitemapURL == nil {
		md.Tip("Publish a sitemap and reference it from robots.txt.")
		md.PlainText("")
	}
	if r.RobotsTxt != nil {
		md.Details("robots.txt", fmt.Sprintf("```\n%s\n```", *r.RobotsTxt))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seolens](https://github.com/nao1215/seolens)*")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString shortens s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
