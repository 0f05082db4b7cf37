// Package middleware provides the HTTP request gates for authentication,
// account resolution, and quota enforcement.
//
// # Ordering requirements
//
// The gates have strict ordering dependencies:
//
//  1. AuthMiddleware — verifies the bearer credential, sets the subject
//  2. AccountContextMiddleware — resolves the subject to an account
//  3. EnforceSendQuota — checks the plan decision for metered routes
//
// The auth gate must complete before anything downstream reads an identity;
// there is no fallback identity and no other way to resolve one.
package middleware

import (
	"errors"
	"net/http"

	"github.com/sendkit/sendkit/pkg/accounts"
	"github.com/sendkit/sendkit/pkg/auth"
	"github.com/sendkit/sendkit/pkg/contextkeys"
	"github.com/sendkit/sendkit/pkg/httputil"
	"github.com/sendkit/sendkit/pkg/observability"
)

// Credential rejection reason codes carried in 401 bodies.
const (
	ReasonMissingCredential = "missing_credential"
	ReasonInvalidCredential = "invalid_credential"
)

// AuthMiddleware authenticates requests against the external identity
// provider via an auth.Verifier.
type AuthMiddleware struct {
	verifier auth.Verifier
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(verifier auth.Verifier, logger *observability.Logger, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handler wraps an HTTP handler with bearer credential verification.
// A missing or malformed header is rejected without calling the verifier;
// everything else the verifier rejects — including the provider being
// unreachable — maps to the same invalid-credential 401.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r)
		if err != nil {
			m.reject(w, ReasonMissingCredential)
			return
		}

		subject, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			m.reject(w, ReasonInvalidCredential)
			return
		}

		ctx := contextkeys.WithSubject(r.Context(), subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, reason string) {
	if m.metrics != nil {
		m.metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	}
	httputil.WriteUnauthorized(w, "authentication required", reason)
}

// AccountContextMiddleware resolves the verified subject to an account.
//
// REQUIRES: AuthMiddleware must run before this middleware.
type AccountContextMiddleware struct {
	store  accounts.Store
	logger *observability.Logger
}

// NewAccountContextMiddleware creates a new account context middleware
func NewAccountContextMiddleware(store accounts.Store, logger *observability.Logger) *AccountContextMiddleware {
	return &AccountContextMiddleware{
		store:  store,
		logger: logger,
	}
}

// Handler loads the account for the request's subject into the context.
func (m *AccountContextMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := contextkeys.Subject(r.Context())
		if subject == "" {
			// Auth gate did not run; treat as unauthenticated rather than
			// guessing an identity.
			httputil.WriteUnauthorized(w, "authentication required", ReasonMissingCredential)
			return
		}

		account, err := m.store.GetBySubject(subject)
		if errors.Is(err, accounts.ErrNotFound) {
			httputil.WriteNotFound(w, "no account for credential")
			return
		}
		if err != nil {
			m.logger.WithError(err).Error("failed to load account")
			httputil.WriteInternalError(w, errors.New("failed to load account"))
			return
		}

		ctx := contextkeys.WithAccount(r.Context(), account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
