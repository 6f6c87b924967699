// Package client contains the transport layer of the MediaVault client.
//
// # Overview
//
//  1. DataSource reads the server's read-only /data resources. HTTPClient
//     fetches them over HTTP with caching disabled; S3Source reads them from
//     an S3-compatible mirror of the data directory.
//  2. HTTPClient also sends the /api requests (init and mutations) as JSON or
//     streamed multipart forms (see Form).
//  3. InitDatabase and RunMigrations bootstrap the local SQLite key store
//     with embedded goose migrations.
//
// Every HTTP request carries a fresh X-Request-Id which is also logged.
//
// # Error Handling
//
// Failures are reported with sentinel errors matched by errors.Is:
// ErrNetworkFailure when no response arrived, ErrServerRejected for any
// non-success status (the concrete *StatusError carries method, path, status
// and body) and ErrNotFound for missing resources.
package client
