package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sendkit/sendkit/pkg/accounts"
	"github.com/sendkit/sendkit/pkg/auth"
	"github.com/sendkit/sendkit/pkg/integrations"
	"github.com/sendkit/sendkit/pkg/metering"
	"github.com/sendkit/sendkit/pkg/middleware"
	"github.com/sendkit/sendkit/pkg/observability"
)

// Deps carries the collaborators the API surface needs. Everything is an
// interface or a ready-built component; the server owns no state of its own.
type Deps struct {
	Verifier     auth.Verifier
	Accounts     accounts.Store
	Integrations integrations.Store
	Counter      *metering.Counter
	Dispatcher   Dispatcher
	Logger       *observability.Logger
	Metrics      *observability.Metrics
}

// Server is the authenticated API surface
type Server struct {
	router *mux.Router
	deps   Deps
	now    func() time.Time
}

// NewServer creates the API server and wires the middleware chain.
// Gate ordering is load-bearing: auth, then account resolution, then quota
// on metered routes. See the middleware package documentation.
func NewServer(deps Deps) *Server {
	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
		now:    time.Now,
	}

	authMW := middleware.NewAuthMiddleware(deps.Verifier, deps.Logger, deps.Metrics)
	accountMW := middleware.NewAccountContextMiddleware(deps.Accounts, deps.Logger)
	quotaMW := middleware.NewQuotaMiddleware(deps.Counter, deps.Logger, deps.Metrics)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMW.Handler)
	api.Use(accountMW.Handler)

	api.Handle("/messages",
		quotaMW.EnforceSendQuota(http.HandlerFunc(s.sendMessage))).Methods("POST")

	api.HandleFunc("/plan", s.getPlan).Methods("GET")
	api.HandleFunc("/settings/daily-limit", s.updateDailyLimit).Methods("PUT")

	api.HandleFunc("/integrations/{provider}/token", s.saveIntegrationToken).Methods("PUT")
	api.HandleFunc("/integrations/{provider}/token", s.getIntegrationToken).Methods("GET")
	api.HandleFunc("/integrations/{provider}/token", s.deleteIntegrationToken).Methods("DELETE")

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
