package push_test

import (
	"errors"
	"testing"

	"github.com/padelclub/turnero/internal/metrics"
	"github.com/padelclub/turnero/internal/notifier/push"
	"github.com/padelclub/turnero/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_PublishesToTopic(t *testing.T) {
	ps := pubsub.NewMock()
	counts := metrics.NewMockStore()
	n := push.NewNotifier(ps, "turn-notifications", counts)

	err := n.Notify("p1", "Invitación", "Te invitaron a un turno", map[string]string{"turn_id": "turn-1"})
	require.NoError(t, err)

	require.Len(t, ps.SendMessageCalls, 1)
	assert.Equal(t, "turn-notifications", ps.SendMessageCalls[0].Topic)

	msg, ok := ps.SendMessageCalls[0].Data.(push.Message)
	require.True(t, ok)
	assert.Equal(t, pubsub.EventPushNotification, msg.Type)
	assert.Equal(t, "p1", msg.UserID)
	assert.Equal(t, "turn-1", msg.Data["turn_id"])

	all, err := counts.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 1, all["push_notifications_sent"])
}

func TestNotify_WrapsPublishError(t *testing.T) {
	ps := pubsub.NewMock()
	ps.SendMessageFunc = func(topic string, data any) error {
		return errors.New("topic not found")
	}
	counts := metrics.NewMockStore()
	n := push.NewNotifier(ps, "turn-notifications", counts)

	err := n.Notify("p1", "t", "b", nil)
	assert.Error(t, err)

	all, err := counts.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 1, all["push_notifications_failed"])
}
