package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/client/vault"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// captureOutput redirects printlnFn into a buffer for the duration of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

func stubSecret(t *testing.T, secret string, err error) {
	t.Helper()
	orig := getSecret
	getSecret = func(string, io.Writer) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(secret), nil
	}
	t.Cleanup(func() { getSecret = orig })
}

type fakes struct {
	verifier *fakeVerifier
	syncer   *fakeSyncer
	index    *fakeIndex
	session  *fakeSession
	assets   *fakeAssets
	mut      *fakeMutations
}

func newTestApp(reader *bufio.Reader, records ...models.Record) (*App, *fakes) {
	f := &fakes{
		verifier: &fakeVerifier{ok: true},
		syncer:   &fakeSyncer{},
		index:    &fakeIndex{records: records},
		session:  &fakeSession{verified: true},
		assets:   &fakeAssets{},
		mut:      &fakeMutations{},
	}
	return &App{
		verifier:    f.verifier,
		syncer:      f.syncer,
		assets:      f.assets,
		mut:         f.mut,
		index:       f.index,
		session:     f.session,
		logger:      logging.Nop(),
		downloadDir: "downloads",
		reader:      reader,
		out:         io.Discard,
	}, f
}

func record(uid, title string, details models.Details) models.Record {
	return models.NewRecord(models.Base{UID: uid, Title: title, OriginalSize: 1536}, details)
}

// ------------ fakes ------------

type fakeVerifier struct {
	ok        bool
	err       error
	gotKey    string
	resumeOK  bool
	resumeErr error
	forgotten bool
	forgetErr error
}

func (f *fakeVerifier) Verify(ctx context.Context, keyHex string) (bool, error) {
	f.gotKey = keyHex
	return f.ok, f.err
}

func (f *fakeVerifier) Resume(ctx context.Context) (bool, error) {
	return f.resumeOK, f.resumeErr
}

func (f *fakeVerifier) Forget(ctx context.Context) error {
	f.forgotten = true
	return f.forgetErr
}

type fakeSyncer struct {
	calls int
	err   error
}

func (f *fakeSyncer) Sync(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeIndex struct {
	records []models.Record
}

func (f *fakeIndex) Records() []models.Record { return f.records }
func (f *fakeIndex) Len() int                 { return len(f.records) }

func (f *fakeIndex) MustGet(uid string) (models.Record, error) {
	for _, r := range f.records {
		if r.UID == uid {
			return r, nil
		}
	}
	return models.Record{}, fmt.Errorf("%w: %s", vault.ErrRecordNotFound, uid)
}

func (f *fakeIndex) ByKind(kind models.Kind) []models.Record {
	var out []models.Record
	for _, r := range f.records {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}

type fakeKeyHistory struct {
	at  time.Time
	ok  bool
	err error
}

func (f *fakeKeyHistory) VerifiedAt(ctx context.Context) (time.Time, bool, error) {
	return f.at, f.ok, f.err
}

type fakeSession struct{ verified bool }

func (f *fakeSession) Verified() bool { return f.verified }

type fakeAssets struct {
	data     []byte
	err      error
	saves    int
	savedUID string
	savedAs  models.Asset
	savedDir string
}

func (f *fakeAssets) Fetch(ctx context.Context, r models.Record, which models.Asset) ([]byte, error) {
	return f.data, f.err
}

func (f *fakeAssets) Thumbnail(ctx context.Context, r models.Record) ([]byte, error) {
	return f.Fetch(ctx, r, models.AssetThumbnail)
}

func (f *fakeAssets) File(ctx context.Context, r models.Record) ([]byte, error) {
	return f.Fetch(ctx, r, models.AssetFile)
}

func (f *fakeAssets) SaveTo(ctx context.Context, r models.Record, which models.Asset, dir string) (string, error) {
	f.saves++
	f.savedUID, f.savedAs, f.savedDir = r.UID, which, dir
	if f.err != nil {
		return "", f.err
	}
	return dir + "/" + r.UID, nil
}

type fakeMutations struct {
	err error

	created     *vault.MediaUpload
	fileContent string
	thumbName   string
	patchedUID  string
	patch       *vault.MediaPatch
	deleted     []string
	note        *vault.NoteDraft
	noteUID     string
	noteContent string
}

func (f *fakeMutations) CreateMedia(ctx context.Context, m vault.MediaUpload) error {
	f.created = &m
	// The command closes the files once this returns.
	b, _ := io.ReadAll(m.File.Content)
	f.fileContent = string(b)
	if m.Thumbnail != nil {
		f.thumbName = m.Thumbnail.Name
	}
	return f.err
}

func (f *fakeMutations) UpdateMedia(ctx context.Context, uid string, p vault.MediaPatch) error {
	f.patchedUID, f.patch = uid, &p
	return f.err
}

func (f *fakeMutations) DeleteMedia(ctx context.Context, uids []string) error {
	f.deleted = uids
	return f.err
}

func (f *fakeMutations) CreateNote(ctx context.Context, n vault.NoteDraft) error {
	f.note = &n
	return f.err
}

func (f *fakeMutations) UpdateNote(ctx context.Context, uid, content string) error {
	f.noteUID, f.noteContent = uid, content
	return f.err
}
