// Package vault is the client core of the encrypted media vault.
//
// A Verifier checks a hex key against the server's key descriptor
// (data/key_info.yaml) and, on a match, fills the shared Session with the
// key, a decrypt-only KeyHandle and the index IV. A Synchronizer then
// downloads and decrypts data/db.yaml.enc into the Index, which is replaced
// atomically on every successful sync. Assets decrypts individual thumbnails
// and files on demand using the per-record IV, and Mutations sends
// create/update/delete requests authenticated with the session key.
//
// All ciphertext is AES-CBC with PKCS#7 padding and no salt header, the
// format `openssl enc -aes-128-cbc -K <key> -iv <iv>` produces.
package vault
