// Package vault protects third-party integration secrets at rest with
// authenticated encryption (AES-256-GCM).
//
// The symmetric key is derived once at startup by hashing the configured
// secret; construction fails fast when the secret is missing or too short.
// Encrypt draws a fresh 16-byte nonce per call and serializes blobs as
//
//	base64(nonce[16] || tag[16] || ciphertext)
//
// Decrypt verifies the authentication tag and fails closed on any mutation
// of the blob, so corrupted or tampered secrets are never partially returned.
package vault
