// Package auth is the inbound credential gate.
//
// Requests authenticate with an externally issued bearer credential:
//
//	Authorization: Bearer <opaque-token>
//
// BearerToken extracts the token without touching the network; a missing or
// malformed header is rejected immediately with ErrMissingCredential. The
// opaque token is then handed to a Verifier — in production the OIDC-backed
// one — which resolves it to a subject identifier or ErrInvalidCredential.
// There is no fallback identity: downstream code reads the resolved subject
// only from the request context set by the auth middleware.
package auth
