package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sendkit/sendkit/pkg/contextkeys"
	"github.com/sendkit/sendkit/pkg/httputil"
	"github.com/sendkit/sendkit/pkg/metering"
	"github.com/sendkit/sendkit/pkg/observability"
	"github.com/sendkit/sendkit/pkg/plan"
)

// decisionKey carries the plan decision from the quota gate to the handler.
type decisionKeyType struct{}

var decisionKey decisionKeyType

// Decision returns the plan decision stored by EnforceSendQuota, or nil when
// the gate has not run for this request.
func Decision(ctx context.Context) *plan.Decision {
	d, _ := ctx.Value(decisionKey).(*plan.Decision)
	return d
}

// QuotaMiddleware enforces the plan policy on metered send routes.
//
// REQUIRES: AuthMiddleware and AccountContextMiddleware must run first.
type QuotaMiddleware struct {
	counter *metering.Counter
	logger  *observability.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewQuotaMiddleware creates a new QuotaMiddleware
func NewQuotaMiddleware(counter *metering.Counter, logger *observability.Logger, metrics *observability.Metrics) *QuotaMiddleware {
	return &QuotaMiddleware{
		counter: counter,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// EnforceSendQuota loads a snapshot of today's send count, runs the plan
// check, and rejects denied requests. Allowed requests proceed with the
// decision in the context so the handler can report the effective limit.
//
// Denials are policy outcomes, not errors: the reason and effective limit
// are returned verbatim for user-facing messaging.
func (m *QuotaMiddleware) EnforceSendQuota(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := contextkeys.Account(r.Context())
		if account == nil {
			httputil.WriteUnauthorized(w, "authentication required", ReasonMissingCredential)
			return
		}

		now := m.now()
		sentToday, err := m.counter.SentToday(r.Context(), account.ID, now)
		if err != nil {
			// Fail closed: without a trustworthy count the cap cannot be
			// enforced, and quota is a billing boundary.
			m.logger.WithError(err).Error("failed to read send count")
			httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "send metering unavailable")
			return
		}

		decision := plan.CheckPlan(account, sentToday, account.DailyLimit, now)
		if m.metrics != nil {
			m.metrics.ObserveSendDecision(decision.Allowed, string(decision.Reason))
		}

		if !decision.Allowed {
			m.deny(w, decision)
			return
		}

		ctx := context.WithValue(r.Context(), decisionKey, &decision)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *QuotaMiddleware) deny(w http.ResponseWriter, decision plan.Decision) {
	w.Header().Set("X-Daily-Limit", fmt.Sprintf("%d", decision.EffectiveLimit))

	switch decision.Reason {
	case plan.DenyReasonDailyLimitReached:
		httputil.WriteReasonedError(w, http.StatusTooManyRequests,
			"daily send limit reached", string(decision.Reason))
	case plan.DenyReasonTrialExpired:
		httputil.WriteReasonedError(w, http.StatusForbidden,
			"trial period has expired", string(decision.Reason))
	default:
		httputil.WriteInternalError(w, errors.New("unknown deny reason"))
	}
}
