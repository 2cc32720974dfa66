package main

import (
	"context"

	"github.com/fwojciec/webclip"
)

// credentialEnv maps credential accounts to the environment variables that
// override them.
var credentialEnv = map[string]string{
	webclip.AccountStoreToken: "WEBCLIP_STORE_TOKEN",
	webclip.AccountSpaceID:    "WEBCLIP_SPACE_ID",
	webclip.AccountAIKey:      "WEBCLIP_AI_KEY",
}

// Ensure EnvCredentialStore implements webclip.CredentialStore at compile time.
var _ webclip.CredentialStore = (*EnvCredentialStore)(nil)

// EnvCredentialStore reads webclip credentials from the environment before
// falling back to a persistent store. Writes always go to the persistent store.
type EnvCredentialStore struct {
	Getenv func(string) string
	Next   webclip.CredentialStore
}

// Get returns the environment override for account, or the stored value.
func (s *EnvCredentialStore) Get(ctx context.Context, service, account string) (string, error) {
	if service == webclip.CredentialService && s.Getenv != nil {
		if name, ok := credentialEnv[account]; ok {
			if v := s.Getenv(name); v != "" {
				return v, nil
			}
		}
	}
	if s.Next == nil {
		return "", webclip.Errorf(webclip.ENOTFOUND, "no %s credential stored", account)
	}
	return s.Next.Get(ctx, service, account)
}

// Put stores value in the persistent store.
func (s *EnvCredentialStore) Put(ctx context.Context, service, account, value string) error {
	if s.Next == nil {
		return webclip.Errorf(webclip.EINVALID, "no credential store configured")
	}
	return s.Next.Put(ctx, service, account, value)
}

// Delete removes value from the persistent store.
func (s *EnvCredentialStore) Delete(ctx context.Context, service, account string) error {
	if s.Next == nil {
		return webclip.Errorf(webclip.ENOTFOUND, "no %s credential stored", account)
	}
	return s.Next.Delete(ctx, service, account)
}

// credential returns a required credential with a hint on how to provide it.
func credential(ctx context.Context, store webclip.CredentialStore, account string) (string, error) {
	v, err := store.Get(ctx, webclip.CredentialService, account)
	if webclip.ErrorCode(err) == webclip.ENOTFOUND {
		return "", webclip.Errorf(webclip.ENOTFOUND,
			"%s not configured. Run 'webclip login' or set %s", account, credentialEnv[account])
	} else if err != nil {
		return "", err
	}
	return v, nil
}
