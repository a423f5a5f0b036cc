package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		InvitationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnero_invitations_created_total",
			Help: "The total number of invitations created.",
		}),
		InvitationsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnero_invitations_accepted_total",
			Help: "The total number of invitations accepted.",
		}),
		InvitationsDeclined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnero_invitations_declined_total",
			Help: "The total number of invitations declined.",
		}),
		ExternalRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnero_external_requests_total",
			Help: "The total number of external join requests received.",
		}),
		TurnsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnero_turns_created_total",
			Help: "The total number of turns created.",
		}),
		TurnsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnero_turns_cancelled_total",
			Help: "The total number of turns fully cancelled.",
		}),
		ConstraintRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnero_constraint_rejections_total",
			Help: "The total number of operations rejected by capacity or constraint checks.",
		}),
		LockWaitSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turnero_turn_lock_wait_seconds",
			Help:    "Time spent waiting to acquire a turn's lock.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "turnero_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.InvitationsCreated,
		s.InvitationsAccepted,
		s.InvitationsDeclined,
		s.ExternalRequests,
		s.TurnsCreated,
		s.TurnsCancelled,
		s.ConstraintRejections,
		s.LockWaitSeconds,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncInvitationsCreated() {
	s.InvitationsCreated.Inc()
}

func (s *Service) IncInvitationsAccepted() {
	s.InvitationsAccepted.Inc()
}

func (s *Service) IncInvitationsDeclined() {
	s.InvitationsDeclined.Inc()
}

func (s *Service) IncExternalRequests() {
	s.ExternalRequests.Inc()
}

func (s *Service) IncTurnsCreated() {
	s.TurnsCreated.Inc()
}

func (s *Service) IncTurnsCancelled() {
	s.TurnsCancelled.Inc()
}

func (s *Service) IncConstraintRejections() {
	s.ConstraintRejections.Inc()
}

func (s *Service) ObserveLockWait(seconds float64) {
	s.LockWaitSeconds.Observe(seconds)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
