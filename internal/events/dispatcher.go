package events

import (
	"github.com/charmbracelet/log"
	"github.com/padelclub/turnero/internal/notifier"
)

// Dispatcher fans domain events out to the notifier. Delivery failures
// are logged and never propagated: the mutation that produced the events
// has already committed.
type Dispatcher struct {
	notifier notifier.Notifier
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(n notifier.Notifier) *Dispatcher {
	return &Dispatcher{notifier: n}
}

// Dispatch delivers each event to its recipient.
func (d *Dispatcher) Dispatch(evts []Event) {
	for _, e := range evts {
		if e.RecipientID == "" {
			continue
		}
		data := e.Data
		if data == nil {
			data = map[string]string{}
		}
		data["event_type"] = string(e.Type)
		data["turn_id"] = e.TurnID
		if err := d.notifier.Notify(e.RecipientID, e.Title, e.Body, data); err != nil {
			log.Error("Failed to deliver event", "type", e.Type, "recipient", e.RecipientID, "turnID", e.TurnID, "error", err)
		}
	}
}
