package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	// MinSecretLength is the minimum length of the configured key secret.
	MinSecretLength = 32

	nonceSize = 16
	tagSize   = 16
)

var (
	// ErrInvalidArgument is returned when a caller passes empty input.
	ErrInvalidArgument = errors.New("vault: input must not be empty")
	// ErrDecryptionFailure is returned when a blob is malformed or fails
	// authentication. Treat it as a tampering or corruption signal; never
	// retry with the same input.
	ErrDecryptionFailure = errors.New("vault: decryption failed")
)

// Vault encrypts and decrypts secrets with AES-256-GCM under a single
// process-wide key. The key is derived once in New and is read-only after
// that, so a Vault is safe for unsynchronized concurrent use.
//
// Blobs are serialized as base64(nonce[16] || tag[16] || ciphertext). The
// layout is a storage contract: only this package may interpret it.
type Vault struct {
	aead cipher.AEAD
}

// New derives the symmetric key from the configured secret and builds the
// AEAD. The secret must be at least MinSecretLength characters; anything
// shorter is a fatal configuration error and the process must not serve
// traffic.
func New(secret string) (*Vault, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("vault: key secret must be at least %d characters", MinSecretLength)
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("vault: new cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("vault: new gcm: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals one plaintext secret and returns the encoded blob.
// Every call draws a fresh random nonce; nonce reuse under the same key
// breaks GCM, so the nonce is never derived from the input.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrInvalidArgument
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("vault: read nonce: %w", err)
	}

	sealed := v.aead.Seal(nil, nonce, []byte(plaintext), nil)
	// Seal appends the tag after the ciphertext; the storage layout wants
	// nonce || tag || ciphertext, so split and reorder.
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	payload := make([]byte, 0, nonceSize+tagSize+len(ciphertext))
	payload = append(payload, nonce...)
	payload = append(payload, tag...)
	payload = append(payload, ciphertext...)

	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt opens a blob produced by Encrypt and returns the original
// plaintext byte-for-byte. Any mutation of the blob — nonce, tag, or
// ciphertext, down to a single bit — fails with ErrDecryptionFailure.
func (v *Vault) Decrypt(blob string) (string, error) {
	if blob == "" {
		return "", ErrInvalidArgument
	}

	payload, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrDecryptionFailure
	}
	if len(payload) < nonceSize+tagSize {
		return "", ErrDecryptionFailure
	}

	nonce := payload[:nonceSize]
	tag := payload[nonceSize : nonceSize+tagSize]
	ciphertext := payload[nonceSize+tagSize:]

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailure
	}

	return string(plaintext), nil
}
