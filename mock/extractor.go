package mock

import "github.com/fwojciec/webclip"

var _ webclip.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webclip.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webclip.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*webclip.ExtractResult, error) {
	return e.ExtractFn(html)
}
