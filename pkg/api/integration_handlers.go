package api

import (
	"errors"
	"net/http"

	"github.com/sendkit/sendkit/pkg/contextkeys"
	"github.com/sendkit/sendkit/pkg/httputil"
	"github.com/sendkit/sendkit/pkg/integrations"
	"github.com/sendkit/sendkit/pkg/vault"
)

type saveTokenRequest struct {
	Token string `json:"token"`
}

// saveIntegrationToken stores a provider OAuth token, encrypted at rest.
func (s *Server) saveIntegrationToken(w http.ResponseWriter, r *http.Request) {
	account := contextkeys.Account(r.Context())
	if account == nil {
		httputil.WriteInternalError(w, errors.New("account context missing"))
		return
	}

	provider, err := httputil.ParsePathString(r, "provider")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	var req saveTokenRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	err = s.deps.Integrations.SaveToken(account.ID, provider, req.Token)
	if errors.Is(err, vault.ErrInvalidArgument) {
		httputil.WriteBadRequest(w, "token is required")
		return
	}
	if err != nil {
		s.vaultOutcome("encrypt", false)
		s.deps.Logger.WithError(err).Error("failed to save integration token")
		httputil.WriteInternalError(w, errors.New("failed to save integration token"))
		return
	}

	s.vaultOutcome("encrypt", true)
	httputil.WriteNoContent(w)
}

// getIntegrationToken reports presence metadata for a stored token.
// The plaintext never leaves the service boundary; internal consumers use
// the integrations store directly.
func (s *Server) getIntegrationToken(w http.ResponseWriter, r *http.Request) {
	account := contextkeys.Account(r.Context())
	if account == nil {
		httputil.WriteInternalError(w, errors.New("account context missing"))
		return
	}

	provider, err := httputil.ParsePathString(r, "provider")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	meta, err := s.deps.Integrations.GetMetadata(account.ID, provider)
	if errors.Is(err, integrations.ErrNotFound) {
		httputil.WriteNotFound(w, "no token stored for provider")
		return
	}
	if err != nil {
		s.deps.Logger.WithError(err).Error("failed to load integration token metadata")
		httputil.WriteInternalError(w, errors.New("failed to load integration token"))
		return
	}

	httputil.WriteSuccess(w, meta)
}

// deleteIntegrationToken removes a stored provider token.
func (s *Server) deleteIntegrationToken(w http.ResponseWriter, r *http.Request) {
	account := contextkeys.Account(r.Context())
	if account == nil {
		httputil.WriteInternalError(w, errors.New("account context missing"))
		return
	}

	provider, err := httputil.ParsePathString(r, "provider")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	err = s.deps.Integrations.DeleteToken(account.ID, provider)
	if errors.Is(err, integrations.ErrNotFound) {
		httputil.WriteNotFound(w, "no token stored for provider")
		return
	}
	if err != nil {
		s.deps.Logger.WithError(err).Error("failed to delete integration token")
		httputil.WriteInternalError(w, errors.New("failed to delete integration token"))
		return
	}

	httputil.WriteNoContent(w)
}

func (s *Server) vaultOutcome(op string, ok bool) {
	if s.deps.Metrics == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	s.deps.Metrics.VaultOperationsTotal.WithLabelValues(op, outcome).Inc()
}
