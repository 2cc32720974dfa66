// Package readability condenses article pages with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/webclip"
	"github.com/go-shiori/go-readability"
)

var _ webclip.Extractor = (*Extractor)(nil)

// Extractor implements webclip.Extractor using Mozilla's Readability algorithm.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable article of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*webclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &webclip.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		Image:       strings.TrimSpace(article.Image),
		ContentHTML: article.Content,
	}, nil
}
