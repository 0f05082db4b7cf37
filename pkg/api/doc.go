// Package api is the authenticated HTTP surface of the service.
//
// All /api/v1 routes run behind the auth and account gates; the metered
// send route additionally runs behind the quota gate. Handlers read identity
// exclusively from the request context populated by those gates.
//
// Routes:
//
//	POST   /api/v1/messages                       metered send
//	GET    /api/v1/plan                           plan/trial telemetry
//	PUT    /api/v1/settings/daily-limit           configure the daily cap
//	PUT    /api/v1/integrations/{provider}/token  store an OAuth token
//	GET    /api/v1/integrations/{provider}/token  token presence metadata
//	DELETE /api/v1/integrations/{provider}/token  remove a token
package api
