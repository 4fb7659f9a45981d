package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/seolens/internal/model"
)

// Extractor turns a fetched HTML document into the fields of a model.Result.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and fills the page-derived fields of result.
// Relative references are resolved against target, and links are classified
// as internal when their www-stripped host equals target's domain.
// Unresolvable links and images are skipped.
func (e *Extractor) Extract(html string, target model.Target, result *model.Result) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	result.Title = model.StringPtr(strings.TrimSpace(doc.Find("title").First().Text()))
	result.Meta = extractMeta(doc)
	result.Links = extractLinks(doc, target)
	result.Images = extractImages(doc, target)
	result.Headings = model.Headings{
		H1: headingTexts(doc, "h1"),
		H2: headingTexts(doc, "h2"),
		H3: headingTexts(doc, "h3"),
	}
	result.TextPreview = textPreview(doc.Find("body").Text())

	return nil
}

func extractMeta(doc *goquery.Document) model.Meta {
	content := func(selector string) *string {
		v, _ := doc.Find(selector).First().Attr("content")
		return model.StringPtr(v)
	}
	return model.Meta{
		Description: content(`meta[name="description"]`),
		Keywords:    content(`meta[name="keywords"]`),
		OpenGraph: model.OpenGraph{
			Title:       content(`meta[property="og:title"]`),
			Description: content(`meta[property="og:description"]`),
			Image:       content(`meta[property="og:image"]`),
			URL:         content(`meta[property="og:url"]`),
		},
	}
}

// extractLinks counts every resolvable anchor. The returned lists are
// deduplicated in document order and then capped.
func extractLinks(doc *goquery.Document, target model.Target) model.LinkSummary {
	var internal, external []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		u, err := target.Resolve(href)
		if err != nil {
			return
		}
		if target.IsInternal(u.Hostname()) {
			internal = append(internal, u.String())
		} else {
			external = append(external, u.String())
		}
	})

	return model.LinkSummary{
		Total:         len(internal) + len(external),
		Internal:      len(internal),
		External:      len(external),
		InternalLinks: uniqueCapped(internal, model.MaxInternalLinks),
		ExternalLinks: uniqueCapped(external, model.MaxExternalLinks),
	}
}

func extractImages(doc *goquery.Document, target model.Target) model.ImageSummary {
	images := make([]model.Image, 0)

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(s.AttrOr("data-src", ""))
		}
		if src == "" {
			return
		}
		u, err := target.Resolve(src)
		if err != nil {
			return
		}
		images = append(images, model.Image{Src: u.String(), Alt: s.AttrOr("alt", "")})
	})

	total := len(images)
	if len(images) > model.MaxImages {
		images = images[:model.MaxImages]
	}
	return model.ImageSummary{Total: total, Images: images}
}

func headingTexts(doc *goquery.Document, tag string) []string {
	texts := make([]string, 0)
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}

// textPreview collapses whitespace runs to one space and keeps the first
// MaxTextPreviewRunes runes.
func textPreview(text string) string {
	return truncateRunes(strings.Join(strings.Fields(text), " "), model.MaxTextPreviewRunes)
}

// uniqueCapped returns the distinct values of list in first-seen order,
// at most n of them. The result is never nil.
func uniqueCapped(list []string, n int) []string {
	out := make([]string, 0, min(len(list), n))
	seen := make(map[string]struct{}, len(list))
	for _, v := range list {
		if len(out) == n {
			break
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
