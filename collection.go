package webclip

import "context"

// Collection is a remote container of items.
type Collection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// CollectionService represents the remote document-collection store.
//
// CreateItem and AppendContent are not transactionally linked: once CreateItem
// succeeds the item exists even if AppendContent later fails.
type CollectionService interface {
	// ListCollections returns every collection visible to the caller.
	ListCollections(ctx context.Context) ([]*Collection, error)

	// FetchSchema returns the schema of a collection.
	FetchSchema(ctx context.Context, collectionID string) (*Schema, error)

	// CreateItem creates one item and returns its remote id.
	// Returns EEMPTY if the store answered without a usable id.
	CreateItem(ctx context.Context, collectionID string, item SanitizedItem, contentKey string) (string, error)

	// AppendContent appends a link block, and an image block when imageURL
	// is non-empty, to the end of the item's document.
	AppendContent(ctx context.Context, itemID, sourceURL, imageURL string) error
}
