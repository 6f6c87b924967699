// Package cryptox holds the small, stateless cryptographic helpers used by the
// vault client: hex conversion, digests, AES-CBC with PKCS#7 padding and
// passphrase key derivation.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrMalformedHex      = errors.New("malformed hex string")
	ErrUnsupportedDigest = errors.New("unsupported digest algorithm")
	ErrInvalidKeySize    = errors.New("invalid AES key size")
	ErrInvalidIV         = errors.New("invalid initialization vector")
	ErrInvalidCiphertext = errors.New("ciphertext is not a multiple of the block size")
	ErrInvalidPadding    = errors.New("invalid PKCS#7 padding")
)

// Digest names follow the WebCrypto identifiers the vault tooling uses.
type Digest string

const (
	SHA1   Digest = "SHA-1"
	SHA256 Digest = "SHA-256"
	SHA384 Digest = "SHA-384"
	SHA512 Digest = "SHA-512"
)

// HexToBytes decodes a hex string. Odd-length input or non-hex characters
// yield an error wrapping ErrMalformedHex.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrMalformedHex, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHex, err)
	}
	return b, nil
}

// BytesToHex returns the lowercase hex encoding of b.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HashHex computes the digest of data with the named algorithm and returns it
// as lowercase hex.
//
// Example:
//
//	sum, err := cryptox.HashHex(cryptox.SHA256, key)
//	if err != nil {
//	    return err
//	}
//	prefix := sum[:6]
func HashHex(alg Digest, data []byte) (string, error) {
	var h hash.Hash
	switch Digest(strings.ToUpper(string(alg))) {
	case SHA1:
		h = sha1.New()
	case SHA256:
		h = sha256.New()
	case SHA384:
		h = sha512.New384()
	case SHA512:
		h = sha512.New()
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDigest, alg)
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ValidKeySize reports whether n is a valid AES key length in bytes.
func ValidKeySize(n int) bool {
	return n == 16 || n == 24 || n == 32
}

// NewBlock creates an AES block cipher for key.
func NewBlock(key []byte) (cipher.Block, error) {
	if !ValidKeySize(len(key)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKeySize, len(key))
	}
	return aes.NewCipher(key)
}

// DecryptCBC decrypts ciphertext produced by `openssl enc -aes-*-cbc -K -iv`:
// raw CBC output without a salt header, PKCS#7 padded.
//
// Parameters:
//   - block: AES block cipher built from the session key.
//   - iv: exactly one block (16 bytes).
//   - ciphertext: non-empty, a multiple of the block size.
//
// Returns the unpadded plaintext, or an error wrapping ErrInvalidIV,
// ErrInvalidCiphertext or ErrInvalidPadding. The ciphertext slice is not
// modified.
func DecryptCBC(block cipher.Block, iv, ciphertext []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIV, len(iv), bs)
	}
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidCiphertext, len(ciphertext))
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return unpad(plaintext, bs)
}

// EncryptCBC pads plaintext with PKCS#7 and encrypts it in CBC mode. The
// output is byte-compatible with `openssl enc -aes-128-cbc -K key -iv iv`.
func EncryptCBC(block cipher.Block, iv, plaintext []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidIV, len(iv), bs)
	}

	padded := pad(plaintext, bs)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, nil
}

func pad(b []byte, bs int) []byte {
	n := bs - len(b)%bs
	return append(append(make([]byte, 0, len(b)+n), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, bs int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > bs || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}

// DeriveKey stretches a passphrase into a key of size bytes with Argon2id.
// Same passphrase and salt always produce the same key.
func DeriveKey(passphrase []byte, salt []byte, size uint32) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, size)
}
