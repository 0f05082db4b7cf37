package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendkit/sendkit/pkg/accounts"
)

func intPtr(v int) *int { return &v }

func freeAccount(createdAgo time.Duration, now time.Time) *accounts.Account {
	return &accounts.Account{
		ID:        "acc-free",
		Plan:      accounts.TierFree,
		CreatedAt: now.Add(-createdAgo),
	}
}

func TestCheckPlan_OwnerNeverDenied(t *testing.T) {
	now := time.Now()
	account := &accounts.Account{
		ID:        "acc-owner",
		Plan:      accounts.TierOwner,
		CreatedAt: now.Add(-365 * 24 * time.Hour),
	}

	decision := CheckPlan(account, 10_000, nil, now)

	assert.True(t, decision.Allowed)
	assert.True(t, decision.IsOwner)
	assert.Empty(t, decision.Reason)
	assert.Equal(t, OwnerDefaultLimit, decision.EffectiveLimit)
}

func TestCheckPlan_OwnerConfiguredLimitPassesThrough(t *testing.T) {
	now := time.Now()
	account := &accounts.Account{Plan: accounts.TierOwner, CreatedAt: now}

	// Owner configured limits are not clamped to any ceiling, and sends over
	// the limit are still allowed; the number is display-only for this tier.
	decision := CheckPlan(account, 500, intPtr(100), now)

	assert.True(t, decision.Allowed)
	assert.True(t, decision.IsOwner)
	assert.Equal(t, 100, decision.EffectiveLimit)
}

func TestCheckPlan_TrialExpiredShortCircuits(t *testing.T) {
	now := time.Now()
	account := freeAccount(14*24*time.Hour+time.Second, now)

	// Trial is checked before the daily cap, so sentToday is irrelevant.
	for _, sentToday := range []int{0, 3, 100} {
		decision := CheckPlan(account, sentToday, nil, now)

		assert.False(t, decision.Allowed)
		assert.Equal(t, DenyReasonTrialExpired, decision.Reason)
		assert.Equal(t, 0, decision.EffectiveLimit)
	}
}

func TestCheckPlan_TrialBoundaryIsExact(t *testing.T) {
	now := time.Now()

	// Exactly at the boundary the trial is still live.
	decision := CheckPlan(freeAccount(TrialPeriod, now), 0, nil, now)
	assert.True(t, decision.Allowed)

	decision = CheckPlan(freeAccount(TrialPeriod+time.Second, now), 0, nil, now)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyReasonTrialExpired, decision.Reason)
}

func TestCheckPlan_ConfiguredLimitBelowCeiling(t *testing.T) {
	now := time.Now()
	account := freeAccount(24*time.Hour, now)

	decision := CheckPlan(account, 2, intPtr(3), now)
	assert.True(t, decision.Allowed)
	assert.False(t, decision.IsOwner)
	assert.Equal(t, 3, decision.EffectiveLimit)

	decision = CheckPlan(account, 3, intPtr(3), now)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyReasonDailyLimitReached, decision.Reason)
	assert.Equal(t, 3, decision.EffectiveLimit)
}

func TestCheckPlan_ConfiguredLimitClampedToCeiling(t *testing.T) {
	now := time.Now()
	account := freeAccount(24*time.Hour, now)

	// A configured limit above the free ceiling never raises it.
	decision := CheckPlan(account, 5, intPtr(50), now)

	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyReasonDailyLimitReached, decision.Reason)
	assert.Equal(t, FreeDailyLimit, decision.EffectiveLimit)
}

func TestCheckPlan_DefaultCap(t *testing.T) {
	now := time.Now()
	account := freeAccount(24*time.Hour, now)

	decision := CheckPlan(account, 4, nil, now)
	assert.True(t, decision.Allowed)
	assert.Equal(t, FreeDailyLimit, decision.EffectiveLimit)

	decision = CheckPlan(account, 5, nil, now)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyReasonDailyLimitReached, decision.Reason)
	assert.Equal(t, FreeDailyLimit, decision.EffectiveLimit)
}

func TestCheckPlan_UnknownTierBehavesAsFree(t *testing.T) {
	now := time.Now()
	account := &accounts.Account{
		Plan:      accounts.Tier("platinum"),
		CreatedAt: now.Add(-24 * time.Hour),
	}

	decision := CheckPlan(account, 5, nil, now)

	assert.False(t, decision.Allowed)
	assert.False(t, decision.IsOwner)
	assert.Equal(t, DenyReasonDailyLimitReached, decision.Reason)
	assert.Equal(t, FreeDailyLimit, decision.EffectiveLimit)
}

func TestTrialInfo_OwnerUnlimited(t *testing.T) {
	now := time.Now()
	account := &accounts.Account{Plan: accounts.TierOwner, CreatedAt: now.Add(-90 * 24 * time.Hour)}

	info := TrialInfo(account, nil, now)

	assert.True(t, info.IsOwner)
	assert.Nil(t, info.TrialExpires)
	assert.False(t, info.TrialExpired)
	assert.Nil(t, info.EffectiveDailyLimit)
}

func TestTrialInfo_OwnerConfigured(t *testing.T) {
	now := time.Now()
	account := &accounts.Account{Plan: accounts.TierOwner, CreatedAt: now}

	info := TrialInfo(account, intPtr(100), now)

	require.NotNil(t, info.EffectiveDailyLimit)
	assert.Equal(t, 100, *info.EffectiveDailyLimit)
}

func TestTrialInfo_FreeActive(t *testing.T) {
	now := time.Now()
	account := freeAccount(24*time.Hour, now)

	info := TrialInfo(account, intPtr(3), now)

	assert.False(t, info.IsOwner)
	require.NotNil(t, info.TrialExpires)
	assert.Equal(t, account.CreatedAt.Add(TrialPeriod), *info.TrialExpires)
	assert.False(t, info.TrialExpired)
	require.NotNil(t, info.EffectiveDailyLimit)
	assert.Equal(t, 3, *info.EffectiveDailyLimit)
}

func TestTrialInfo_FreeExpiredForcesZeroLimit(t *testing.T) {
	now := time.Now()
	account := freeAccount(30*24*time.Hour, now)

	info := TrialInfo(account, intPtr(3), now)

	assert.True(t, info.TrialExpired)
	require.NotNil(t, info.EffectiveDailyLimit)
	assert.Equal(t, 0, *info.EffectiveDailyLimit)
}
