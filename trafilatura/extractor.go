// Package trafilatura condenses article pages with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/webclip"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ webclip.Extractor = (*Extractor)(nil)

// Extractor implements webclip.Extractor using go-trafilatura with its
// readability and dom-distiller fallbacks enabled.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor that skips comment sections.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeImages:   true,
	}}
}

// Extract returns the main article of rawHTML with its metadata title and image.
func (e *Extractor) Extract(rawHTML string) (*webclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	out := &webclip.ExtractResult{
		Title: strings.TrimSpace(result.Metadata.Title),
		Image: strings.TrimSpace(result.Metadata.Image),
	}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
