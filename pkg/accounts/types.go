package accounts

import (
	"strings"
	"time"
)

// Tier represents a subscription plan tier.
//
// The set of recognized tiers is closed (Free, Owner). Any other value is an
// unknown tier: it keeps its original name for display and auditing, but every
// policy decision treats it exactly like Free. That fallback is deliberate —
// a tier added by a newer deploy must never grant more than Free semantics to
// a process that does not recognize it.
type Tier string

const (
	TierFree  Tier = "free"
	TierOwner Tier = "owner"
)

// ParseTier normalizes a stored tier name. Unrecognized names are preserved
// as-is so they survive a write-back, but behave as Free everywhere.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TierFree):
		return TierFree
	case string(TierOwner):
		return TierOwner
	default:
		return Tier(s)
	}
}

// IsOwner reports whether this tier gets owner semantics.
func (t Tier) IsOwner() bool {
	return t == TierOwner
}

// Known reports whether the tier is one of the recognized values.
func (t Tier) Known() bool {
	return t == TierFree || t == TierOwner
}

// Account represents a customer account as loaded from the account store.
// Immutable for the duration of a request once loaded.
type Account struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Plan    Tier   `json:"plan"`
	// DailyLimit is the user-configured daily send cap. Nil means the account
	// has not configured one and plan defaults apply.
	DailyLimit *int      `json:"daily_limit,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store defines the interface for account persistence.
type Store interface {
	Create(account *Account) error
	GetByID(id string) (*Account, error)
	GetBySubject(subject string) (*Account, error)
	SetDailyLimit(id string, limit *int) error
	SetPlan(id string, plan Tier) error
}
