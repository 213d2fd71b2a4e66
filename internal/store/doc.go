// Package store provides file-based persistence for the warehouse client.
//
// It holds the local journal of clusters this client created, serialised as
// JSON under the configured home directory. Writes go through a temp file
// and an atomic rename. When the operator supplies a passphrase the journal
// is sealed with scrypt + ChaCha20-Poly1305, since it lists device IMEIs.
// All methods are concurrency-safe via internal locking.
package store
