package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/webclip"
)

var _ webclip.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is a mock implementation of webclip.CredentialStore.
type CredentialStore struct {
	GetFn    func(ctx context.Context, service, account string) (string, error)
	PutFn    func(ctx context.Context, service, account, value string) error
	DeleteFn func(ctx context.Context, service, account string) error
}

func (s *CredentialStore) Get(ctx context.Context, service, account string) (string, error) {
	return s.GetFn(ctx, service, account)
}

func (s *CredentialStore) Put(ctx context.Context, service, account, value string) error {
	return s.PutFn(ctx, service, account, value)
}

func (s *CredentialStore) Delete(ctx context.Context, service, account string) error {
	return s.DeleteFn(ctx, service, account)
}

// NewMemoryCredentialStore returns a CredentialStore backed by a map.
func NewMemoryCredentialStore(seed map[string]string) *CredentialStore {
	var mu sync.Mutex
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	key := func(service, account string) string { return service + "/" + account }

	return &CredentialStore{
		GetFn: func(_ context.Context, service, account string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := values[key(service, account)]
			if !ok {
				return "", webclip.Errorf(webclip.ENOTFOUND, "credential %s/%s not found", service, account)
			}
			return v, nil
		},
		PutFn: func(_ context.Context, service, account, value string) error {
			mu.Lock()
			defer mu.Unlock()
			values[key(service, account)] = value
			return nil
		},
		DeleteFn: func(_ context.Context, service, account string) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := values[key(service, account)]; !ok {
				return webclip.Errorf(webclip.ENOTFOUND, "credential %s/%s not found", service, account)
			}
			delete(values, key(service, account))
			return nil
		},
	}
}
