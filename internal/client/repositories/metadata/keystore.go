package metadata

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/dbx"
)

const verifiedAtName = "key_verified_at"

// KeyStore keeps the last verified vault key so a session can be resumed
// after a restart. The key and its verification time are written together.
type KeyStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewKeyStore(db *sql.DB) *KeyStore {
	return &KeyStore{db: db, now: time.Now}
}

// SaveKey stores keyHex under common.KeyMetadataName.
func (s *KeyStore) SaveKey(ctx context.Context, keyHex string) error {
	stamp := s.now().UTC().Format(time.RFC3339)
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.KeyMetadataName, keyHex); err != nil {
			return err
		}
		return repo.Set(ctx, verifiedAtName, stamp)
	})
}

// LoadKey returns the stored key, or "" if none was saved.
func (s *KeyStore) LoadKey(ctx context.Context) (string, error) {
	v, _, err := NewSQLiteRepository(s.db).Get(ctx, common.KeyMetadataName)
	return v, err
}

// VerifiedAt reports when the stored key was saved. ok is false when no key
// is stored.
func (s *KeyStore) VerifiedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	v, found, err := NewSQLiteRepository(s.db).Get(ctx, verifiedAtName)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// ForgetKey removes the stored key. Removing an absent key is not an error.
func (s *KeyStore) ForgetKey(ctx context.Context) error {
	return NewSQLiteRepository(s.db).Delete(ctx, common.KeyMetadataName, verifiedAtName)
}
