package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/client/client"
	"github.com/dmitrijs2005/mediavault/internal/client/metrics"
	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/cryptox"
	"github.com/dmitrijs2005/mediavault/internal/filex"
	"github.com/google/uuid"
)

// Assets fetches and decrypts the payloads records point at. It never
// touches the session or the index and caches nothing.
type Assets interface {
	Fetch(ctx context.Context, r models.Record, which models.Asset) ([]byte, error)
	Thumbnail(ctx context.Context, r models.Record) ([]byte, error)
	File(ctx context.Context, r models.Record) ([]byte, error)
	// SaveTo writes the decrypted asset into dir and returns the file path.
	SaveTo(ctx context.Context, r models.Record, which models.Asset, dir string) (string, error)
}

type assets struct {
	source  client.DataSource
	session *Session
	metrics *metrics.Collector
}

func NewAssets(source client.DataSource, session *Session, m *metrics.Collector) Assets {
	return &assets{source: source, session: session, metrics: m}
}

func (a *assets) Fetch(ctx context.Context, r models.Record, which models.Asset) ([]byte, error) {
	data, err := a.fetch(ctx, r, which)
	if err != nil {
		a.metrics.AssetFetched(which.String(), metrics.OutcomeError)
		return nil, err
	}
	a.metrics.AssetFetched(which.String(), metrics.OutcomeOK)
	return data, nil
}

func (a *assets) fetch(ctx context.Context, r models.Record, which models.Asset) ([]byte, error) {
	p := r.AssetPath(which)
	if p == "" {
		return nil, fmt.Errorf("%w: %s of %s", ErrNoAsset, which, r.UID)
	}

	if !r.Encrypted {
		data, err := a.source.Fetch(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("fetching %s of %s: %w", which, r.UID, err)
		}
		return data, nil
	}

	handle, iv, err := a.material(r)
	if err != nil {
		return nil, err
	}

	data, err := a.source.Fetch(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("fetching %s of %s: %w", which, r.UID, err)
	}

	plaintext, err := handle.Decrypt(iv, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s of %s: %w", ErrAssetDecryptionFailed, which, r.UID, err)
	}
	return plaintext, nil
}

// material checks the record IV and session key before anything is fetched.
func (a *assets) material(r models.Record) (*KeyHandle, []byte, error) {
	if r.IV == "" {
		return nil, nil, fmt.Errorf("%w: record %s has no iv", ErrMissingDecryptionMaterial, r.UID)
	}
	iv, err := cryptox.HexToBytes(r.IV)
	if err != nil || len(iv) != 16 {
		return nil, nil, fmt.Errorf("%w: record %s has a malformed iv", ErrMissingDecryptionMaterial, r.UID)
	}

	handle := a.session.Handle()
	if handle == nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMissingDecryptionMaterial, ErrSessionNotVerified)
	}
	return handle, iv, nil
}

func (a *assets) Thumbnail(ctx context.Context, r models.Record) ([]byte, error) {
	return a.Fetch(ctx, r, models.AssetThumbnail)
}

func (a *assets) File(ctx context.Context, r models.Record) ([]byte, error) {
	return a.Fetch(ctx, r, models.AssetFile)
}

func (a *assets) SaveTo(ctx context.Context, r models.Record, which models.Asset, dir string) (string, error) {
	data, err := a.Fetch(ctx, r, which)
	if err != nil {
		return "", err
	}

	dir, err = filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	target := filepath.Join(dir, downloadName(r, which))
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", err
	}
	return target, nil
}

// downloadName picks a local file name: the original name for the primary
// file, the uid plus the stored name for thumbnails.
func downloadName(r models.Record, which models.Asset) string {
	if which == models.AssetFile {
		if name := safeBase(r.OriginalName); name != "" {
			return name
		}
	}

	prefix := safeBase(r.UID)
	if prefix == "" {
		prefix = uuid.NewString()
	}
	if which == models.AssetThumbnail {
		if stored := safeBase(strings.TrimSuffix(r.Thumbnail, ".enc")); stored != "" {
			return prefix + "-" + stored
		}
	}
	return prefix + "-" + uuid.NewString()[:8]
}

func safeBase(name string) string {
	if name == "" {
		return ""
	}
	b := filepath.Base(name)
	if b == "." || b == ".." || b == string(filepath.Separator) {
		return ""
	}
	return b
}
