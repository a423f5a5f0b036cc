package notifier

// Notifier defines a high-level interface for delivering player
// notifications about turn events. This decouples the rest of the
// application from the specific delivery provider.
type Notifier interface {
	Notify(userID, title, body string, data map[string]string) error
}
