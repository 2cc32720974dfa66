package webclip

import "context"

// MaxPromptContent is the number of characters of page content sent to the model.
const MaxPromptContent = 100_000

// GenerateRequest holds the inputs of one AI extraction.
type GenerateRequest struct {
	URL         string
	PageContent string
	Schema      *Schema

	// Guidance is free-form text from the user steering the extraction.
	Guidance string

	// SuggestedImageURL is placed into image-like fields when non-empty.
	SuggestedImageURL string
}

// Generator produces a draft item from page content using a generative model.
type Generator interface {
	// GenerateItem returns a draft mapping schema keys to extracted values.
	// Returns ERATELIMITED, ESERVER, EDECODE or an *HTTPError on failure.
	GenerateItem(ctx context.Context, req GenerateRequest) (DraftItem, error)
}
