package webclip

import (
	"errors"
	"strings"
)

// ExtractResult holds the condensed content of a web page.
type ExtractResult struct {
	// Title is the page title from metadata, if any.
	Title string

	// Image is a representative image URL from metadata, if any.
	Image string

	// ContentHTML is the main content with navigation, footers,
	// sidebars and ads removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML content into Markdown.
	Convert(html string) (string, error)
}

// Ensure ExtractorChain implements Extractor at compile time.
var _ Extractor = ExtractorChain(nil)

// ExtractorChain tries each extractor in order and returns the first result
// with non-blank content.
type ExtractorChain []Extractor

// Extract implements Extractor.
func (c ExtractorChain) Extract(html string) (*ExtractResult, error) {
	var errs []error
	var title, image string
	for _, e := range c {
		result, err := e.Extract(html)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if title == "" {
			title = result.Title
		}
		if image == "" {
			image = result.Image
		}
		if strings.TrimSpace(result.ContentHTML) == "" {
			continue
		}
		if result.Title == "" {
			result.Title = title
		}
		if result.Image == "" {
			result.Image = image
		}
		return result, nil
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, Errorf(EINVALID, "no content extracted")
}
