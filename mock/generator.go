package mock

import (
	"context"

	"github.com/fwojciec/webclip"
)

var _ webclip.Generator = (*Generator)(nil)

// Generator is a mock implementation of webclip.Generator.
type Generator struct {
	GenerateItemFn func(ctx context.Context, req webclip.GenerateRequest) (webclip.DraftItem, error)
}

func (g *Generator) GenerateItem(ctx context.Context, req webclip.GenerateRequest) (webclip.DraftItem, error) {
	return g.GenerateItemFn(ctx, req)
}
