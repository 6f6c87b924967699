package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/client/client"
	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/cryptox"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// Well-known resources under the data root.
const (
	KeyInfoPath = "key_info.yaml"
	IndexPath   = "db.yaml.enc"
)

// maxKeyHashLen is the length of a full SHA-256 hex digest.
const maxKeyHashLen = 64

// Initializer asks the server to create a vault for a key.
type Initializer interface {
	Init(ctx context.Context, keyHex string) error
}

// KeyStore persists the last verified key across restarts.
type KeyStore interface {
	SaveKey(ctx context.Context, keyHex string) error
	LoadKey(ctx context.Context) (string, error)
	ForgetKey(ctx context.Context) error
}

// Verifier checks candidate keys against the server's key descriptor and
// establishes the session on success.
type Verifier interface {
	// Verify returns false with a nil error when the key does not match or
	// no descriptor could be obtained.
	Verify(ctx context.Context, keyHex string) (bool, error)
	// Resume re-verifies the persisted key, if any.
	Resume(ctx context.Context) (bool, error)
	// Forget deletes the persisted key. The current session is kept.
	Forget(ctx context.Context) error
}

type verifier struct {
	source  client.DataSource
	init    Initializer
	store   KeyStore
	session *Session
	logger  logging.Logger
}

func NewVerifier(source client.DataSource, init Initializer, store KeyStore, session *Session, logger logging.Logger) Verifier {
	return &verifier{source: source, init: init, store: store, session: session, logger: logger}
}

// parseKey checks that keyHex is hex of an AES key size.
func parseKey(keyHex string) ([]byte, error) {
	raw, err := cryptox.HexToBytes(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedKeyInput, err)
	}
	if !cryptox.ValidKeySize(len(raw)) {
		return nil, fmt.Errorf("%w: %d bytes, want 16, 24 or 32", ErrMalformedKeyInput, len(raw))
	}
	return raw, nil
}

// descriptorAbsent covers every non-success answer, not only 404.
func descriptorAbsent(err error) bool {
	return errors.Is(err, client.ErrServerRejected) || errors.Is(err, client.ErrNotFound)
}

func (v *verifier) Verify(ctx context.Context, keyHex string) (bool, error) {
	raw, err := parseKey(keyHex)
	if err != nil {
		return false, err
	}

	info, err := v.fetchDescriptor(ctx, keyHex)
	if err != nil {
		return false, err
	}
	if info == nil {
		v.logger.Info(ctx, "key descriptor unavailable after init")
		return false, nil
	}

	indexIV, err := checkDescriptor(info)
	if err != nil {
		return false, err
	}

	sum, err := cryptox.HashHex(cryptox.SHA256, raw)
	if err != nil {
		return false, err
	}
	if sum[:len(info.KeyHash)] != strings.ToLower(info.KeyHash) {
		v.logger.Info(ctx, "key does not match vault")
		return false, nil
	}

	handle, err := importKey(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedKeyInput, err)
	}

	if err := v.store.SaveKey(ctx, keyHex); err != nil {
		v.logger.Error(ctx, "failed to persist key", "error", err)
		return false, fmt.Errorf("persisting key: %w", err)
	}

	v.session.Establish(keyHex, handle, indexIV)
	v.logger.Info(ctx, "vault key verified")
	return true, nil
}

// fetchDescriptor returns nil, nil when the descriptor is still absent after
// one init round trip.
func (v *verifier) fetchDescriptor(ctx context.Context, keyHex string) (*models.KeyInfo, error) {
	data, err := v.source.Fetch(ctx, KeyInfoPath)
	if err != nil {
		if !descriptorAbsent(err) {
			return nil, fmt.Errorf("fetching key descriptor: %w", err)
		}

		v.logger.Info(ctx, "key descriptor missing, initializing vault")
		if err := v.init.Init(ctx, keyHex); err != nil {
			return nil, fmt.Errorf("initializing vault: %w", err)
		}

		data, err = v.source.Fetch(ctx, KeyInfoPath)
		if descriptorAbsent(err) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("fetching key descriptor: %w", err)
		}
	}

	info, err := models.ParseKeyInfo(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDescriptor, err)
	}
	return info, nil
}

// checkDescriptor validates the descriptor and decodes its IV.
func checkDescriptor(info *models.KeyInfo) ([]byte, error) {
	if n := len(info.KeyHash); n == 0 || n > maxKeyHashLen {
		return nil, fmt.Errorf("%w: key_hash length %d", ErrMalformedDescriptor, n)
	}
	if _, err := cryptox.HexToBytes(info.KeyHash + strings.Repeat("0", len(info.KeyHash)%2)); err != nil {
		return nil, fmt.Errorf("%w: key_hash: %w", ErrMalformedDescriptor, err)
	}

	iv, err := cryptox.HexToBytes(info.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: iv: %w", ErrMalformedDescriptor, err)
	}
	if len(iv) != 16 {
		return nil, fmt.Errorf("%w: iv is %d bytes, want 16", ErrMalformedDescriptor, len(iv))
	}
	return iv, nil
}

func (v *verifier) Resume(ctx context.Context) (bool, error) {
	keyHex, err := v.store.LoadKey(ctx)
	if err != nil {
		return false, fmt.Errorf("loading key: %w", err)
	}
	if keyHex == "" {
		return false, nil
	}
	return v.Verify(ctx, keyHex)
}

func (v *verifier) Forget(ctx context.Context) error {
	if err := v.store.ForgetKey(ctx); err != nil {
		return fmt.Errorf("forgetting key: %w", err)
	}
	v.logger.Info(ctx, "stored key removed")
	return nil
}
