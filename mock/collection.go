package mock

import (
	"context"

	"github.com/fwojciec/webclip"
)

var _ webclip.CollectionService = (*CollectionService)(nil)

// CollectionService is a mock implementation of webclip.CollectionService.
type CollectionService struct {
	ListCollectionsFn func(ctx context.Context) ([]*webclip.Collection, error)
	FetchSchemaFn     func(ctx context.Context, collectionID string) (*webclip.Schema, error)
	CreateItemFn      func(ctx context.Context, collectionID string, item webclip.SanitizedItem, contentKey string) (string, error)
	AppendContentFn   func(ctx context.Context, itemID, sourceURL, imageURL string) error
}

func (s *CollectionService) ListCollections(ctx context.Context) ([]*webclip.Collection, error) {
	return s.ListCollectionsFn(ctx)
}

func (s *CollectionService) FetchSchema(ctx context.Context, collectionID string) (*webclip.Schema, error) {
	return s.FetchSchemaFn(ctx, collectionID)
}

func (s *CollectionService) CreateItem(ctx context.Context, collectionID string, item webclip.SanitizedItem, contentKey string) (string, error) {
	return s.CreateItemFn(ctx, collectionID, item, contentKey)
}

func (s *CollectionService) AppendContent(ctx context.Context, itemID, sourceURL, imageURL string) error {
	return s.AppendContentFn(ctx, itemID, sourceURL, imageURL)
}
