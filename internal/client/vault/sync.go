package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mediavault/internal/client/client"
	"github.com/dmitrijs2005/mediavault/internal/client/metrics"
	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Synchronizer refreshes the Index from the server's encrypted index.
type Synchronizer interface {
	// Sync replaces the index on success and leaves it untouched on any
	// failure. Concurrent calls share a single fetch and its result; the
	// context of the call that started it governs the fetch.
	Sync(ctx context.Context) error
}

type synchronizer struct {
	source  client.DataSource
	session *Session
	index   *Index
	logger  logging.Logger
	metrics *metrics.Collector
	group   singleflight.Group
}

func NewSynchronizer(source client.DataSource, session *Session, index *Index, logger logging.Logger, m *metrics.Collector) Synchronizer {
	return &synchronizer{source: source, session: session, index: index, logger: logger, metrics: m}
}

func (s *synchronizer) Sync(ctx context.Context) error {
	_, err, _ := s.group.Do("sync", func() (any, error) {
		return nil, s.sync(ctx)
	})
	return err
}

func (s *synchronizer) sync(ctx context.Context) error {
	handle, iv, ok := s.session.IndexMaterial()
	if !ok {
		return ErrSessionNotVerified
	}

	snap, err := s.load(ctx, handle, iv)
	if err != nil {
		s.metrics.SyncFinished(syncOutcome(err), 0)
		s.logger.Warn(ctx, "index sync failed", "error", err)
		return err
	}

	s.index.swap(snap)
	s.metrics.SyncFinished(metrics.OutcomeOK, len(snap.records))
	s.logger.Info(ctx, "index synced", "records", len(snap.records))
	return nil
}

func (s *synchronizer) load(ctx context.Context, handle *KeyHandle, iv []byte) (*snapshot, error) {
	data, err := s.source.Fetch(ctx, IndexPath)
	switch {
	case client.IsNotFound(err):
		data = nil
	case err != nil:
		return nil, fmt.Errorf("fetching index: %w", err)
	}

	var records []models.Record
	if len(data) > 0 {
		plaintext, err := handle.Decrypt(iv, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIndexDecryptionFailed, err)
		}

		records, err = models.ParseIndex(plaintext)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIndexMalformed, err)
		}
	}

	return newSnapshot(records)
}

func syncOutcome(err error) string {
	switch {
	case errors.Is(err, ErrIndexDecryptionFailed), errors.Is(err, ErrIndexMalformed):
		return metrics.OutcomeInvalid
	case errors.Is(err, client.ErrServerRejected):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
