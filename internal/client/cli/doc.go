// Package cli provides the interactive MediaVault command-line client.
//
// It wires configuration, the local key store, a data source (HTTP or S3)
// and the vault services into a REPL. Typical flow: resume a saved key or
// prompt for one, synchronize the encrypted index and then browse, download
// or change records.
//
// Key features:
//   - Login with a hex key, or generate one (optionally from a passphrase)
//   - List / Show records, download decrypted files and thumbnails
//   - Upload, edit and delete media, create and edit notes
//   - Sync the index with the server
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
