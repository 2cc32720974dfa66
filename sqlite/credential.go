package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/webclip"
)

// Compile-time interface verification.
var _ webclip.CredentialStore = (*CredentialStore)(nil)

// CredentialStore implements webclip.CredentialStore using SQLite.
type CredentialStore struct {
	db  *DB
	now func() time.Time
}

// NewCredentialStore creates a new CredentialStore.
func NewCredentialStore(db *DB) *CredentialStore {
	return &CredentialStore{db: db, now: time.Now}
}

// Get returns the value stored for service and account.
func (s *CredentialStore) Get(ctx context.Context, service, account string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM credentials WHERE service = ? AND account = ?
	`, service, account).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", webclip.Errorf(webclip.ENOTFOUND, "no %s credential stored", account)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Put stores value for service and account, replacing any previous value.
func (s *CredentialStore) Put(ctx context.Context, service, account, value string) error {
	if service == "" || account == "" {
		return webclip.Errorf(webclip.EINVALID, "credential service and account required")
	}
	if value == "" {
		return webclip.Errorf(webclip.EINVALID, "credential value required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (service, account, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (service, account) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, service, account, value, s.now().UTC().Format(time.RFC3339))
	return err
}

// Delete removes the value stored for service and account.
func (s *CredentialStore) Delete(ctx context.Context, service, account string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM credentials WHERE service = ? AND account = ?
	`, service, account)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return webclip.Errorf(webclip.ENOTFOUND, "no %s credential stored", account)
	}
	return nil
}
