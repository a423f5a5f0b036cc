package http

import (
	"net/http"

	"github.com/padelclub/turnero/internal/config"
	"github.com/padelclub/turnero/internal/engine"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/metrics"
	"github.com/padelclub/turnero/internal/players"
	"github.com/padelclub/turnero/internal/turns"
)

func NewServer(eng *engine.Engine, turnStore turns.TurnStore, directory players.PlayerDirectory, metricsSvc metrics.Metrics, metricsHandler http.Handler, metricsStore metrics.MetricsStore, dispatcher *events.Dispatcher, cfg config.Config) *Server {
	server := &Server{
		Engine:         eng,
		Turns:          turnStore,
		Players:        directory,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		MetricsStore:   metricsStore,
		Dispatcher:     dispatcher,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(s.StatsHandler(), paramsMiddleware))

	s.Router.Handle("POST /turns", Chain(s.CreateTurnHandler(), paramsMiddleware))
	s.Router.Handle("GET /turns/{turnID}", Chain(s.GetTurnHandler(), paramsMiddleware))
	s.Router.Handle("GET /turns/{turnID}/players", Chain(s.CountPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /turns/{turnID}/cancel", Chain(s.CancelTurnHandler(), paramsMiddleware))
	s.Router.Handle("POST /turns/{turnID}/leave", Chain(s.LeaveTurnHandler(), paramsMiddleware))
	s.Router.Handle("POST /turns/{turnID}/invitations", Chain(s.CreateInvitationsHandler(), paramsMiddleware))
	s.Router.Handle("GET /turns/{turnID}/invitations", Chain(s.ListTurnInvitationsHandler(), paramsMiddleware))
	s.Router.Handle("GET /turns/{turnID}/can-invite", Chain(s.CanInviteHandler(), paramsMiddleware))
	s.Router.Handle("POST /turns/{turnID}/requests", Chain(s.RequestToJoinHandler(), paramsMiddleware))
	s.Router.Handle("GET /turns/{turnID}/requests", Chain(s.ListExternalRequestsHandler(), paramsMiddleware))
	s.Router.Handle("GET /turns/{turnID}/candidates", Chain(s.SearchCandidatesHandler(), paramsMiddleware))

	s.Router.Handle("POST /invitations/{invitationID}/respond", Chain(s.RespondHandler(), paramsMiddleware))
	s.Router.Handle("POST /invitations/{invitationID}/approve", Chain(s.ApproveRequestHandler(), paramsMiddleware))
	s.Router.Handle("POST /invitations/{invitationID}/reject", Chain(s.RejectRequestHandler(), paramsMiddleware))
	s.Router.Handle("POST /invitations/{invitationID}/cancel", Chain(s.CancelInvitationHandler(), paramsMiddleware))

	s.Router.Handle("GET /players/{playerID}/turns", Chain(s.ListPlayerTurnsHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{playerID}/invitations/received", Chain(s.ReceivedInvitationsHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{playerID}/invitations/pending", Chain(s.PendingInvitationsHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{playerID}/invitations/sent", Chain(s.SentInvitationsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
