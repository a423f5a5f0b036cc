package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncInvitationsCreated()
	IncInvitationsAccepted()
	IncInvitationsDeclined()
	IncExternalRequests()
	IncTurnsCreated()
	IncTurnsCancelled()
	IncConstraintRejections()
	ObserveLockWait(seconds float64)
	SetStartupTime(duration float64)
}

// MetricsStore persists lifetime operation counters in the database, for
// counts that must survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
