package api

import (
	"errors"
	"net/http"

	"github.com/sendkit/sendkit/pkg/accounts"
	"github.com/sendkit/sendkit/pkg/contextkeys"
	"github.com/sendkit/sendkit/pkg/httputil"
	"github.com/sendkit/sendkit/pkg/plan"
)

type planResponse struct {
	plan.Info
	SentToday int `json:"sent_today"`
}

// getPlan returns display metadata about the account's plan and trial
// window. It is telemetry: metering hiccups degrade to a zero count instead
// of failing the request.
func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	account := contextkeys.Account(r.Context())
	if account == nil {
		httputil.WriteInternalError(w, errors.New("account context missing"))
		return
	}

	now := s.now()
	info := plan.TrialInfo(account, account.DailyLimit, now)

	sentToday, err := s.deps.Counter.SentToday(r.Context(), account.ID, now)
	if err != nil {
		s.deps.Logger.WithError(err).Warn("failed to read send count for plan view")
		sentToday = 0
	}

	httputil.WriteSuccess(w, planResponse{Info: info, SentToday: sentToday})
}

type updateDailyLimitRequest struct {
	// DailyLimit nil clears the configured cap.
	DailyLimit *int `json:"daily_limit"`
}

// updateDailyLimit sets or clears the account's configured daily send cap.
func (s *Server) updateDailyLimit(w http.ResponseWriter, r *http.Request) {
	account := contextkeys.Account(r.Context())
	if account == nil {
		httputil.WriteInternalError(w, errors.New("account context missing"))
		return
	}

	var req updateDailyLimitRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.DailyLimit != nil && *req.DailyLimit <= 0 {
		httputil.WriteBadRequest(w, "daily_limit must be a positive integer")
		return
	}

	if err := s.deps.Accounts.SetDailyLimit(account.ID, req.DailyLimit); err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			httputil.WriteNotFound(w, "account not found")
			return
		}
		s.deps.Logger.WithError(err).Error("failed to update daily limit")
		httputil.WriteInternalError(w, errors.New("failed to update daily limit"))
		return
	}

	// Reflect the new cap in the response using the updated account.
	updated := *account
	updated.DailyLimit = req.DailyLimit
	httputil.WriteSuccess(w, plan.TrialInfo(&updated, req.DailyLimit, s.now()))
}
