package vault

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/dmitrijs2005/mediavault/internal/client/models"
)

type snapshot struct {
	records []models.Record
	byUID   map[string]int
}

var emptySnapshot = &snapshot{records: []models.Record{}, byUID: map[string]int{}}

// newSnapshot indexes records by uid. Empty or duplicate uids are rejected.
func newSnapshot(records []models.Record) (*snapshot, error) {
	byUID := make(map[string]int, len(records))
	for i, r := range records {
		if r.UID == "" {
			return nil, fmt.Errorf("%w: record #%d has no uid", ErrIndexMalformed, i)
		}
		if _, dup := byUID[r.UID]; dup {
			return nil, fmt.Errorf("%w: duplicate uid %q", ErrIndexMalformed, r.UID)
		}
		byUID[r.UID] = i
	}
	if records == nil {
		records = []models.Record{}
	}
	return &snapshot{records: records, byUID: byUID}, nil
}

// Index is the in-memory view of the last successfully synced index. Reads
// see either the old or the new contents, never a mix.
type Index struct {
	snap atomic.Pointer[snapshot]
}

func NewIndex() *Index {
	ix := &Index{}
	ix.snap.Store(emptySnapshot)
	return ix
}

func (ix *Index) load() *snapshot {
	if s := ix.snap.Load(); s != nil {
		return s
	}
	return emptySnapshot
}

func (ix *Index) swap(s *snapshot) {
	ix.snap.Store(s)
}

// Records returns the records in index order. The slice is a copy.
func (ix *Index) Records() []models.Record {
	return slices.Clone(ix.load().records)
}

func (ix *Index) Len() int {
	return len(ix.load().records)
}

// Get looks a record up by uid.
func (ix *Index) Get(uid string) (models.Record, bool) {
	s := ix.load()
	i, ok := s.byUID[uid]
	if !ok {
		return models.Record{}, false
	}
	return s.records[i], true
}

// MustGet is Get that reports a missing uid as ErrRecordNotFound.
func (ix *Index) MustGet(uid string) (models.Record, error) {
	r, ok := ix.Get(uid)
	if !ok {
		return models.Record{}, fmt.Errorf("%w: %s", ErrRecordNotFound, uid)
	}
	return r, nil
}

// ByKind returns the records of one kind in index order.
func (ix *Index) ByKind(kind models.Kind) []models.Record {
	var out []models.Record
	for _, r := range ix.load().records {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}
