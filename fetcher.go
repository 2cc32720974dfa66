package webclip

import "context"

// MaxPageBytes is the ceiling on page content read by a Fetcher.
const MaxPageBytes = 5 << 20

// Fetcher retrieves the raw content of a page.
type Fetcher interface {
	// Fetch returns the page body, truncated to the fetcher's byte ceiling.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (string, error)
}
