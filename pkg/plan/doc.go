// Package plan decides whether an account may perform a metered send.
//
// Both entry points are pure functions: CheckPlan produces an enforcement
// Decision, TrialInfo produces display metadata. Callers load the account
// and the day's send count from their stores and pass snapshots in; nothing
// here touches the network or a database.
//
// Free accounts (and any unrecognized tier) may send only inside a 14-day
// trial window measured from the account creation instant, and are capped at
// min(configured limit, 5) sends per day. Owner accounts are never denied
// here — their limit is advisory and rendered by the dashboard only.
package plan
