package webclip

import "context"

// Credential coordinates used by webclip.
const (
	CredentialService = "webclip"

	AccountStoreToken = "store-token"
	AccountSpaceID    = "space-id"
	AccountAIKey      = "ai-key"
)

// CredentialStore is a key-value store for secrets keyed by service and account.
type CredentialStore interface {
	// Get returns the stored value.
	// Returns ENOTFOUND if nothing is stored.
	Get(ctx context.Context, service, account string) (string, error)

	// Put stores value, replacing any previous one.
	Put(ctx context.Context, service, account, value string) error

	// Delete removes the stored value.
	// Returns ENOTFOUND if nothing is stored.
	Delete(ctx context.Context, service, account string) error
}
