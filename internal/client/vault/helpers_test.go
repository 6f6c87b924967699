package vault

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mediavault/internal/client/client"
	"github.com/dmitrijs2005/mediavault/internal/client/models"
	"github.com/dmitrijs2005/mediavault/internal/cryptox"
	"github.com/dmitrijs2005/mediavault/internal/logging"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	testKey     = "000102030405060708090a0b0c0d0e0f"
	otherKey    = "ffeeddccbbaa99887766554433221100"
	testIndexIV = "00112233445566778899aabbccddeeff"
	testAssetIV = "0f0e0d0c0b0a09080706050403020100"
)

func keyHash(t *testing.T, keyHex string, n int) string {
	t.Helper()
	raw, err := cryptox.HexToBytes(keyHex)
	require.NoError(t, err)
	sum, err := cryptox.HashHex(cryptox.SHA256, raw)
	require.NoError(t, err)
	return sum[:n]
}

func encrypt(t *testing.T, keyHex, ivHex string, plaintext []byte) []byte {
	t.Helper()
	key, err := cryptox.HexToBytes(keyHex)
	require.NoError(t, err)
	iv, err := cryptox.HexToBytes(ivHex)
	require.NoError(t, err)
	block, err := cryptox.NewBlock(key)
	require.NoError(t, err)
	ct, err := cryptox.EncryptCBC(block, iv, plaintext)
	require.NoError(t, err)
	return ct
}

func descriptor(keyHash, iv string) []byte {
	return []byte("key_hash: \"" + keyHash + "\"\niv: \"" + iv + "\"\n")
}

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// fakeVault serves /data/* from an in-memory map and records /api calls.
type fakeVault struct {
	mu       sync.Mutex
	files    map[string][]byte
	status   map[string]int
	fetches  map[string]int
	requests []recordedRequest
	apiCode  int
	onInit   func(key string)
	srv      *httptest.Server
}

func newFakeVault(t *testing.T) *fakeVault {
	t.Helper()
	fv := &fakeVault{
		files:   map[string][]byte{},
		status:  map[string]int{},
		fetches: map[string]int{},
		apiCode: http.StatusOK,
	}
	fv.srv = httptest.NewServer(http.HandlerFunc(fv.serve))
	t.Cleanup(fv.srv.Close)
	return fv
}

func (fv *fakeVault) serve(w http.ResponseWriter, r *http.Request) {
	if p, ok := strings.CutPrefix(r.URL.Path, "/data/"); ok {
		fv.mu.Lock()
		fv.fetches[p]++
		code, forced := fv.status[p]
		data, found := fv.files[p]
		fv.mu.Unlock()

		switch {
		case forced:
			w.WriteHeader(code)
		case !found:
			http.NotFound(w, r)
		default:
			_, _ = w.Write(data)
		}
		return
	}

	body, _ := io.ReadAll(r.Body)
	fv.mu.Lock()
	fv.requests = append(fv.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	onInit := fv.onInit
	code := fv.apiCode
	fv.mu.Unlock()

	if r.URL.Path == "/api/init" && onInit != nil {
		var key string
		_ = json.Unmarshal(body, &key)
		onInit(key)
	}
	w.WriteHeader(code)
}

func (fv *fakeVault) put(path string, data []byte) {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	delete(fv.status, path)
	fv.files[path] = data
}

func (fv *fakeVault) remove(path string) {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	delete(fv.files, path)
}

func (fv *fakeVault) force(path string, code int) {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	fv.status[path] = code
}

func (fv *fakeVault) fetchCount(path string) int {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	return fv.fetches[path]
}

func (fv *fakeVault) apiRequests() []recordedRequest {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	return append([]recordedRequest(nil), fv.requests...)
}

// putIndex encrypts records with key and the index IV.
func (fv *fakeVault) putIndex(t *testing.T, keyHex string, records []models.Record) {
	t.Helper()
	plain, err := yaml.Marshal(records)
	require.NoError(t, err)
	fv.put(IndexPath, encrypt(t, keyHex, testIndexIV, plain))
}

func (fv *fakeVault) client() *client.HTTPClient {
	return client.NewHTTPClient(fv.srv.URL, 5*time.Second, logging.Nop(), nil)
}

// memKeyStore is an in-memory KeyStore.
type memKeyStore struct {
	mu      sync.Mutex
	key     string
	saveErr error
	saves   int
}

func (s *memKeyStore) SaveKey(_ context.Context, keyHex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.key = keyHex
	return nil
}

func (s *memKeyStore) LoadKey(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key, nil
}

func (s *memKeyStore) ForgetKey(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = ""
	return nil
}

// testVault wires the real components against a fake server.
type testVault struct {
	server   *fakeVault
	store    *memKeyStore
	session  *Session
	index    *Index
	verifier Verifier
	sync     Synchronizer
	assets   Assets
	mut      Mutations
}

func newTestVault(t *testing.T) *testVault {
	t.Helper()
	fv := newFakeVault(t)
	c := fv.client()
	store := &memKeyStore{}
	session := NewSession()
	index := NewIndex()

	return &testVault{
		server:   fv,
		store:    store,
		session:  session,
		index:    index,
		verifier: NewVerifier(c, c, store, session, logging.Nop()),
		sync:     NewSynchronizer(c, session, index, logging.Nop(), nil),
		assets:   NewAssets(c, session, nil),
		mut:      NewMutations(c, session, logging.Nop()),
	}
}

// login publishes a descriptor for testKey and verifies it.
func (tv *testVault) login(t *testing.T) {
	t.Helper()
	tv.server.put(KeyInfoPath, descriptor(keyHash(t, testKey, 6), testIndexIV))
	ok, err := tv.verifier.Verify(context.Background(), testKey)
	require.NoError(t, err)
	require.True(t, ok)
}

var errBoom = errors.New("boom")
