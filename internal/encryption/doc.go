// Package encryption provides password-based file encryption using chunked
// AES-256-CTR with per-chunk HMAC-SHA256 authentication. Keys are derived
// with Argon2id from a password and a per-container salt, memory usage is
// bounded by the chunk size, and every failure surfaces as a typed error or
// an OperationResult so batch callers can keep going.
package encryption
