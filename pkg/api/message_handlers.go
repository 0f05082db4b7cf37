package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sendkit/sendkit/pkg/contextkeys"
	"github.com/sendkit/sendkit/pkg/httputil"
	"github.com/sendkit/sendkit/pkg/middleware"
)

type sendMessageRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type sendMessageResponse struct {
	ID             string `json:"id"`
	SentToday      int    `json:"sent_today"`
	EffectiveLimit int    `json:"effective_limit"`
}

// sendMessage accepts a metered send. The quota gate has already allowed the
// request and left its decision in the context.
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	account := contextkeys.Account(r.Context())
	decision := middleware.Decision(r.Context())
	if account == nil || decision == nil {
		// Gates not run; refuse rather than meter an unknown sender.
		httputil.WriteInternalError(w, errors.New("send gates did not run"))
		return
	}

	var req sendMessageRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.To == "" {
		httputil.WriteBadRequest(w, "to is required")
		return
	}

	msg := &Message{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		To:        req.To,
		Subject:   req.Subject,
		Body:      req.Body,
	}

	if err := s.deps.Dispatcher.Dispatch(r.Context(), msg); err != nil {
		s.deps.Logger.WithError(err).Error("dispatch failed")
		if errors.Is(err, ErrQueueFull) {
			httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "delivery queue is full")
			return
		}
		httputil.WriteInternalError(w, errors.New("failed to dispatch message"))
		return
	}

	// Record after dispatch so a failed dispatch does not consume quota.
	sentToday, err := s.deps.Counter.RecordSend(r.Context(), account.ID, s.now())
	if err != nil {
		// The message is already on its way; log and answer with the
		// pre-send snapshot rather than failing the request.
		s.deps.Logger.WithError(err).Error("failed to record send")
		sentToday = 0
	}

	httputil.WriteJSON(w, http.StatusAccepted, sendMessageResponse{
		ID:             msg.ID,
		SentToday:      sentToday,
		EffectiveLimit: decision.EffectiveLimit,
	})
}
