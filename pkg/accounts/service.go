package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account not found")

// PostgresStore implements the Store interface using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create creates a new account
func (s *PostgresStore) Create(account *Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Plan == "" {
		account.Plan = TierFree
	}
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))

	query := `
		INSERT INTO accounts (id, subject, email, plan, daily_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := s.db.QueryRow(query, account.ID, account.Subject, account.Email,
		string(account.Plan), nullableInt(account.DailyLimit)).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (s *PostgresStore) GetByID(id string) (*Account, error) {
	query := `
		SELECT id, subject, email, plan, daily_limit, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return s.scanAccount(s.db.QueryRow(query, id))
}

// GetBySubject retrieves an account by the identity provider subject
// resolved by the auth gate.
func (s *PostgresStore) GetBySubject(subject string) (*Account, error) {
	query := `
		SELECT id, subject, email, plan, daily_limit, created_at, updated_at
		FROM accounts
		WHERE subject = $1
	`
	return s.scanAccount(s.db.QueryRow(query, subject))
}

// SetDailyLimit sets or clears the user-configured daily send cap.
// A nil limit clears the cap so plan defaults apply.
func (s *PostgresStore) SetDailyLimit(id string, limit *int) error {
	query := `
		UPDATE accounts
		SET daily_limit = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := s.db.Exec(query, nullableInt(limit), id)
	if err != nil {
		return fmt.Errorf("failed to set daily limit: %w", err)
	}
	return requireRow(result)
}

// SetPlan changes the account's plan tier
func (s *PostgresStore) SetPlan(id string, plan Tier) error {
	query := `
		UPDATE accounts
		SET plan = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := s.db.Exec(query, string(plan), id)
	if err != nil {
		return fmt.Errorf("failed to set plan: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) scanAccount(row *sql.Row) (*Account, error) {
	account := &Account{}
	var plan string
	var dailyLimit sql.NullInt64

	err := row.Scan(&account.ID, &account.Subject, &account.Email, &plan,
		&dailyLimit, &account.CreatedAt, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.Plan = ParseTier(plan)
	if dailyLimit.Valid {
		limit := int(dailyLimit.Int64)
		account.DailyLimit = &limit
	}

	return account, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}
