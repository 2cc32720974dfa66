// Package goquery condenses pages by stripping noise elements with goquery.
// It is the last resort of the extractor chain and works on any markup.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webclip"
)

var _ webclip.Extractor = (*Extractor)(nil)

// noiseSelectors match elements that never carry article content.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "aside", "header",
	"iframe", "svg", "canvas", "form", "button",
	"[role=navigation]", "[role=complementary]", "[aria-hidden=true]",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement", ".related", ".comments",
}

// containers are tried in order to find the main content.
var containers = []string{"main", "article", "[role=main]", "body"}

// Extractor implements webclip.Extractor by removing noise elements and
// keeping the first main content container.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main container of rawHTML with noise removed.
func (e *Extractor) Extract(rawHTML string) (*webclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, webclip.Errorf(webclip.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &webclip.ExtractResult{
		Title: metaContent(doc, `meta[property="og:title"]`),
		Image: metaContent(doc, `meta[property="og:image"]`),
	}
	if result.Title == "" {
		result.Title = strings.TrimSpace(doc.Find("head title").First().Text())
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, tag := range containers {
		sel := doc.Find(tag).First()
		if sel.Length() == 0 || strings.TrimSpace(sel.Text()) == "" {
			continue
		}
		content, err := goquery.OuterHtml(sel)
		if err != nil {
			return nil, err
		}
		result.ContentHTML = content
		break
	}
	return result, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}
