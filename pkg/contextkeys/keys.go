// Package contextkeys provides centralized context key definitions
//
// All context keys used across the application must be defined here. This
// prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import (
	"context"

	"github.com/sendkit/sendkit/pkg/accounts"
)

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SubjectKey contains the identity-provider subject string.
	// Set by: middleware.AuthMiddleware after successful verification
	// Required by: account context middleware, audit logging
	SubjectKey Key = "auth_subject"

	// AccountKey contains *accounts.Account
	// Set by: middleware.AccountContextMiddleware
	// Required by: quota middleware, all account-scoped handlers
	AccountKey Key = "account"

	// RequestIDKey contains request ID string (UUID)
	// Set by: observability middleware
	// Used by: logger, error responses
	RequestIDKey Key = "request_id"
)

// WithSubject attaches the verified subject to the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

// Subject returns the verified subject, or "" when the auth gate has not run.
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectKey).(string)
	return subject
}

// WithAccount attaches the resolved account to the context.
func WithAccount(ctx context.Context, account *accounts.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}

// Account returns the resolved account, or nil when not set.
func Account(ctx context.Context) *accounts.Account {
	account, _ := ctx.Value(AccountKey).(*accounts.Account)
	return account
}

// WithRequestID attaches a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request ID, or "" when not set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
