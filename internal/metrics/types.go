package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	InvitationsCreated   prometheus.Counter
	InvitationsAccepted  prometheus.Counter
	InvitationsDeclined  prometheus.Counter
	ExternalRequests     prometheus.Counter
	TurnsCreated         prometheus.Counter
	TurnsCancelled       prometheus.Counter
	ConstraintRejections prometheus.Counter
	LockWaitSeconds      prometheus.Histogram
	StartupTimeSeconds   prometheus.Gauge
}
