package vault

import (
	"crypto/cipher"
	"sync"

	"github.com/dmitrijs2005/mediavault/internal/cryptox"
)

// Algorithm is the only cipher the vault uses.
const Algorithm = "AES-CBC"

// KeyHandle wraps an imported key. It can only decrypt.
type KeyHandle struct {
	block cipher.Block
}

func importKey(raw []byte) (*KeyHandle, error) {
	block, err := cryptox.NewBlock(raw)
	if err != nil {
		return nil, err
	}
	return &KeyHandle{block: block}, nil
}

// Decrypt reverses AES-CBC with PKCS#7 padding.
func (h *KeyHandle) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	return cryptox.DecryptCBC(h.block, iv, ciphertext)
}

// Session is the verified key material shared by the vault components.
// Either all of it is set or none is. It is written by the verifier and read
// by everyone else.
type Session struct {
	mu      sync.RWMutex
	keyHex  string
	handle  *KeyHandle
	indexIV []byte
}

func NewSession() *Session {
	return &Session{}
}

// Establish installs freshly verified key material.
func (s *Session) Establish(keyHex string, handle *KeyHandle, indexIV []byte) {
	iv := append([]byte(nil), indexIV...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyHex = keyHex
	s.handle = handle
	s.indexIV = iv
}

func (s *Session) Algorithm() string {
	return Algorithm
}

// Verified reports whether a key has been verified in this process.
func (s *Session) Verified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle != nil
}

// KeyHex returns the verified key as sent to the server.
func (s *Session) KeyHex() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyHex, s.handle != nil
}

// Handle returns the key handle, or nil before verification.
func (s *Session) Handle() *KeyHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle
}

// IndexMaterial returns what is needed to decrypt the index.
func (s *Session) IndexMaterial() (*KeyHandle, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.handle == nil {
		return nil, nil, false
	}
	return s.handle, s.indexIV, true
}
