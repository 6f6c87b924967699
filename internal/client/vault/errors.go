package vault

import "errors"

var (
	ErrMalformedKeyInput         = errors.New("malformed key")
	ErrMalformedDescriptor       = errors.New("malformed key descriptor")
	ErrSessionNotVerified        = errors.New("vault session is not verified")
	ErrIndexDecryptionFailed     = errors.New("index decryption failed")
	ErrIndexMalformed            = errors.New("index is malformed")
	ErrRecordNotFound            = errors.New("record not found")
	ErrNoAsset                   = errors.New("record has no such asset")
	ErrMissingDecryptionMaterial = errors.New("missing decryption material")
	ErrAssetDecryptionFailed     = errors.New("asset decryption failed")
	ErrInvalidRequest            = errors.New("invalid request")
)
