package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCVerifier resolves bearer tokens through an OpenID Connect provider's
// userinfo endpoint. The token itself stays opaque to this module; structure
// and signature checks are the provider's job.
type OIDCVerifier struct {
	provider *oidc.Provider
}

// NewOIDCVerifier discovers the provider's endpoints from its issuer URL.
func NewOIDCVerifier(ctx context.Context, issuerURL string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &OIDCVerifier{provider: provider}, nil
}

// Verify presents the token to the provider and returns the verified subject.
// Provider errors of any kind — rejection, malformed response, transport
// failure — collapse to ErrInvalidCredential.
func (v *OIDCVerifier) Verify(ctx context.Context, token string) (string, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	userInfo, err := v.provider.UserInfo(ctx, source)
	if err != nil {
		return "", ErrInvalidCredential
	}
	if userInfo.Subject == "" {
		return "", ErrInvalidCredential
	}

	return userInfo.Subject, nil
}
