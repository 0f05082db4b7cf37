package plan

import (
	"time"

	"github.com/sendkit/sendkit/pkg/accounts"
)

const (
	// FreeDailyLimit is the hard ceiling on daily sends for the free tier.
	FreeDailyLimit = 5
	// OwnerDefaultLimit is the advisory daily limit shown for owner accounts
	// that have not configured their own. It is never enforced for owners.
	OwnerDefaultLimit = 20
	// TrialPeriod is how long after creation a free account may send.
	// Measured as elapsed time from the creation instant, not calendar days.
	TrialPeriod = 14 * 24 * time.Hour
)

// DenyReason identifies why a send was denied.
type DenyReason string

const (
	DenyReasonTrialExpired      DenyReason = "trial_expired"
	DenyReasonDailyLimitReached DenyReason = "daily_limit_reached"
)

// Decision is the outcome of a plan check for a metered send.
// Consumers always receive the effective limit and, when denied, the reason;
// the boolean is never exposed on its own.
type Decision struct {
	Allowed        bool       `json:"allowed"`
	IsOwner        bool       `json:"is_owner"`
	Reason         DenyReason `json:"reason,omitempty"`
	EffectiveLimit int        `json:"effective_limit"`
}

// TrialExpiresAt returns the instant the account's trial window closes.
// Only meaningful for non-owner accounts.
func TrialExpiresAt(account *accounts.Account) time.Time {
	return account.CreatedAt.Add(TrialPeriod)
}

// CheckPlan decides whether the account may perform a metered send right now.
//
// It is a pure function of its inputs: sentToday is a snapshot supplied by
// the metering collaborator and configuredLimit is the account's optional
// user-configured cap (nil when unset). No I/O happens here, which keeps
// quota policy testable without a database.
//
// Owner accounts are never denied; their limit is advisory and display-only.
// Every other tier, including unrecognized ones, gets free-tier semantics:
// the trial window is checked first and short-circuits the daily cap.
func CheckPlan(account *accounts.Account, sentToday int, configuredLimit *int, now time.Time) Decision {
	if account.Plan.IsOwner() {
		limit := OwnerDefaultLimit
		if configuredLimit != nil {
			limit = *configuredLimit
		}
		return Decision{Allowed: true, IsOwner: true, EffectiveLimit: limit}
	}

	if now.After(TrialExpiresAt(account)) {
		return Decision{Reason: DenyReasonTrialExpired, EffectiveLimit: 0}
	}

	limit := FreeDailyLimit
	if configuredLimit != nil && *configuredLimit < FreeDailyLimit {
		limit = *configuredLimit
	}

	if sentToday >= limit {
		return Decision{Reason: DenyReasonDailyLimitReached, EffectiveLimit: limit}
	}

	return Decision{Allowed: true, EffectiveLimit: limit}
}

// Info is read-only plan state for display. Unlike Decision it carries no
// permission verdict.
type Info struct {
	Plan         accounts.Tier `json:"plan"`
	IsOwner      bool          `json:"is_owner"`
	TrialExpires *time.Time    `json:"trial_expires_at,omitempty"`
	TrialExpired bool          `json:"trial_expired"`
	// EffectiveDailyLimit is nil for an owner with no configured cap,
	// which renders as "unlimited".
	EffectiveDailyLimit *int `json:"effective_daily_limit"`
}

// TrialInfo computes display metadata for the account's plan. It never fails;
// it is telemetry for the dashboard, not an enforcement point.
func TrialInfo(account *accounts.Account, configuredLimit *int, now time.Time) Info {
	if account.Plan.IsOwner() {
		return Info{
			Plan:                account.Plan,
			IsOwner:             true,
			EffectiveDailyLimit: configuredLimit,
		}
	}

	expiresAt := TrialExpiresAt(account)
	expired := now.After(expiresAt)

	limit := FreeDailyLimit
	if configuredLimit != nil && *configuredLimit < FreeDailyLimit {
		limit = *configuredLimit
	}
	if expired {
		limit = 0
	}

	return Info{
		Plan:                account.Plan,
		TrialExpires:        &expiresAt,
		TrialExpired:        expired,
		EffectiveDailyLimit: &limit,
	}
}
