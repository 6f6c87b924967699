// Package common contains shared constants and small helpers used across
// MediaVault components.
package common

const (
	// RequestIDHeaderName carries a per-request correlation id on outbound
	// HTTP calls.
	RequestIDHeaderName = "X-Request-Id"

	// KeyMetadataName is the durable key-store entry holding the verified
	// vault key.
	KeyMetadataName = "key"
)
