package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrMissingCredential is returned when the Authorization header is
	// absent or not a Bearer credential. No verifier call is made.
	ErrMissingCredential = errors.New("auth: missing bearer credential")
	// ErrInvalidCredential is returned when the identity provider rejects
	// the token, returns no subject, or cannot be reached. The gate fails
	// closed: "provider down" and "token invalid" look the same to callers.
	ErrInvalidCredential = errors.New("auth: invalid bearer credential")
)

// Verifier validates an opaque bearer token against an external identity
// provider and resolves it to a subject identifier. Verify is the only
// suspending operation in the request path; it honors ctx cancellation and
// imposes no timeout of its own.
type Verifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}

// BearerToken extracts the opaque token from a request's Authorization
// header. Returns ErrMissingCredential when the header is absent, has the
// wrong scheme, or carries no token.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingCredential
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMissingCredential
	}

	return parts[1], nil
}
