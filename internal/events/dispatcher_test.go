package events_test

import (
	"errors"
	"testing"

	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/notifier"
	"github.com/stretchr/testify/assert"
)

func TestDispatch_DeliversToEachRecipient(t *testing.T) {
	mock := notifier.NewMock()
	d := events.NewDispatcher(mock)

	d.Dispatch([]events.Event{
		{Type: events.TypeTurnCancelled, TurnID: "turn-1", RecipientID: "p1", Title: "Turno cancelado"},
		{Type: events.TypeTurnCancelled, TurnID: "turn-1", RecipientID: "p2", Title: "Turno cancelado"},
		{Type: events.TypeTurnCancelled, TurnID: "turn-1", RecipientID: ""},
	})

	assert.Len(t, mock.NotifyCalls, 2)
	assert.Equal(t, "p1", mock.NotifyCalls[0].UserID)
	assert.Equal(t, "turn-1", mock.NotifyCalls[0].Data["turn_id"])
	assert.Equal(t, string(events.TypeTurnCancelled), mock.NotifyCalls[0].Data["event_type"])
}

func TestDispatch_SwallowsDeliveryErrors(t *testing.T) {
	mock := notifier.NewMock()
	mock.NotifyFunc = func(userID, title, body string, data map[string]string) error {
		return errors.New("push gateway down")
	}
	d := events.NewDispatcher(mock)

	// Must not panic or propagate.
	d.Dispatch([]events.Event{
		{Type: events.TypeInvitationCreated, TurnID: "turn-1", RecipientID: "p1"},
	})

	assert.Len(t, mock.NotifyCalls, 1)
}
