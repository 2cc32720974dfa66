package mock

import "github.com/fwojciec/webclip"

var _ webclip.Converter = (*Converter)(nil)

// Converter is a mock implementation of webclip.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
