package integrations

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sendkit/sendkit/pkg/vault"
)

// ErrNotFound is returned when no token is stored for an account/provider pair.
var ErrNotFound = errors.New("integration token not found")

// TokenMetadata describes a stored integration credential without exposing it.
type TokenMetadata struct {
	AccountID string    `json:"account_id"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists third-party OAuth tokens. Implementations must never write
// a token in the clear.
type Store interface {
	SaveToken(accountID, provider, token string) error
	GetToken(accountID, provider string) (string, error)
	GetMetadata(accountID, provider string) (*TokenMetadata, error)
	DeleteToken(accountID, provider string) error
}

// PostgresStore stores integration tokens in PostgreSQL, encrypted through
// the vault on the way in and decrypted on the way out. The blob layout is
// the vault's contract; this store treats ciphertext as opaque.
type PostgresStore struct {
	db    *sql.DB
	vault *vault.Vault
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB, v *vault.Vault) *PostgresStore {
	return &PostgresStore{db: db, vault: v}
}

// SaveToken encrypts and upserts the token for an account/provider pair
func (s *PostgresStore) SaveToken(accountID, provider, token string) error {
	blob, err := s.vault.Encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	query := `
		INSERT INTO integration_tokens (account_id, provider, token_ciphertext)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, provider)
		DO UPDATE SET token_ciphertext = EXCLUDED.token_ciphertext, updated_at = NOW()
	`
	if _, err := s.db.Exec(query, accountID, provider, blob); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// GetToken loads and decrypts the token for an account/provider pair.
// A decryption failure propagates as-is — it signals tampering or key
// mismatch and must not be masked as a missing token.
func (s *PostgresStore) GetToken(accountID, provider string) (string, error) {
	query := `
		SELECT token_ciphertext
		FROM integration_tokens
		WHERE account_id = $1 AND provider = $2
	`
	var blob string
	err := s.db.QueryRow(query, accountID, provider).Scan(&blob)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return s.vault.Decrypt(blob)
}

// GetMetadata returns presence metadata for a stored token without
// decrypting it.
func (s *PostgresStore) GetMetadata(accountID, provider string) (*TokenMetadata, error) {
	query := `
		SELECT account_id, provider, created_at, updated_at
		FROM integration_tokens
		WHERE account_id = $1 AND provider = $2
	`
	meta := &TokenMetadata{}
	err := s.db.QueryRow(query, accountID, provider).
		Scan(&meta.AccountID, &meta.Provider, &meta.CreatedAt, &meta.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token metadata: %w", err)
	}

	return meta, nil
}

// DeleteToken removes the stored token for an account/provider pair
func (s *PostgresStore) DeleteToken(accountID, provider string) error {
	query := `
		DELETE FROM integration_tokens
		WHERE account_id = $1 AND provider = $2
	`
	result, err := s.db.Exec(query, accountID, provider)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
