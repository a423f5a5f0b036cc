package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/padelclub/turnero/internal/config"
	"github.com/padelclub/turnero/internal/engine"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/invites"
	"github.com/padelclub/turnero/internal/metrics"
	"github.com/padelclub/turnero/internal/notifier"
	"github.com/padelclub/turnero/internal/players"
	"github.com/padelclub/turnero/internal/rules"
	"github.com/padelclub/turnero/internal/turns"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *Server
	turns    *turns.MockStore
	invites  *invites.MockStore
	players  *players.MockDirectory
	notifier *notifier.Mock
	store    *metrics.MockStore
}

// setupTestServer wires a server over in-memory stores and mock clients.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	turnStore := turns.NewMock()
	invStore := invites.NewMock()
	directory := players.NewMock()
	mockNotifier := notifier.NewMock()
	metricsStore := metrics.NewMockStore()

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)

	eng := engine.New(turnStore, invStore, directory, metricsSvc, "club-1")
	dispatcher := events.NewDispatcher(mockNotifier)

	server := NewServer(eng, turnStore, directory, metricsSvc, metricsHandler, metricsStore, dispatcher, config.Config{ClubID: "club-1"})
	return &testEnv{
		server:   server,
		turns:    turnStore,
		invites:  invStore,
		players:  directory,
		notifier: mockNotifier,
		store:    metricsStore,
	}
}

func (env *testEnv) seedPlayer(id, gender, category string) {
	env.players.Seed(&players.Player{
		ID: id, Name: "Player " + id, Gender: gender, Category: category, ClubID: "club-1",
	})
}

func (env *testEnv) seedTurn(id, organizerID string) {
	turn := &turns.Turn{
		ID: id, CourtID: "court-1", Date: "2026-09-01", StartTime: "10:00",
		EndTime: "11:30", Status: turns.StatusPending,
	}
	turn.Slots[0] = turns.Slot{PlayerID: organizerID, Side: rules.SideDrive, CourtPosition: 1}
	env.turns.Seed(turn)
}

func doJSON(t *testing.T, server *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	env := setupTestServer(t)
	rr := doJSON(t, env.server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestStatsHandler(t *testing.T) {
	env := setupTestServer(t)
	env.store.Increment("push_notifications_sent")
	env.store.Increment("push_notifications_sent")

	rr := doJSON(t, env.server, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts["push_notifications_sent"])
}

func TestCreateTurnHandler(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")

	body := map[string]any{
		"court_id": "court-1", "date": "2026-09-01", "start_time": "10:00",
		"end_time": "11:30", "organizer_id": "org-1", "side": rules.SideDrive,
		"court_position": 1,
	}
	rr := doJSON(t, env.server, http.MethodPost, "/turns", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var turn turns.Turn
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &turn))
	assert.Equal(t, turns.StatusPending, turn.Status)
	assert.Equal(t, "org-1", turn.OrganizerID())

	// The organizer is notified about the reservation.
	assert.Equal(t, []string{"org-1"}, env.notifier.NotifiedUsers())

	// Claiming the same slot again conflicts.
	rr = doJSON(t, env.server, http.MethodPost, "/turns", body)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateTurnHandler_BadBody(t *testing.T) {
	env := setupTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/turns", bytes.NewBufferString("{nope"))
	rr := httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetTurnHandler_NotFound(t *testing.T) {
	env := setupTestServer(t)
	rr := doJSON(t, env.server, http.MethodGet, "/turns/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(engine.CodeNotFound), resp["code"])
}

func TestInvitationFlowOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")
	env.seedPlayer("p2", rules.GenderMale, "5ta")
	env.seedTurn("turn-1", "org-1")

	rr := doJSON(t, env.server, http.MethodPost, "/turns/turn-1/invitations", map[string]any{
		"inviter_id": "org-1", "player_ids": []string{"p2"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var result engine.CreateResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Len(t, result.Created, 1)
	invID := result.Created[0].ID

	rr = doJSON(t, env.server, http.MethodPost, "/invitations/"+invID+"/respond", map[string]any{
		"player_id": "p2", "decision": "ACCEPT", "side": rules.SideReves, "court_position": 2,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var inv invites.Invitation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &inv))
	assert.Equal(t, invites.StatusAccepted, inv.Status)

	turn, _ := env.turns.Get("turn-1")
	assert.Equal(t, 2, turn.Occupied())

	// Each mutation notified someone.
	assert.Contains(t, env.notifier.NotifiedUsers(), "p2")
	assert.Contains(t, env.notifier.NotifiedUsers(), "org-1")
}

func TestCreateInvitationsHandler_AllRejected(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")
	env.seedTurn("turn-1", "org-1")

	rr := doJSON(t, env.server, http.MethodPost, "/turns/turn-1/invitations", map[string]any{
		"inviter_id": "org-1", "player_ids": []string{"ghost"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var result engine.CreateResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Empty(t, result.Created)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, engine.CodeNotFound, result.Rejections[0].Code)
}

func TestCancelTurnHandler_Permissions(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")
	env.seedPlayer("p2", rules.GenderMale, "5ta")
	env.seedTurn("turn-1", "org-1")

	rr := doJSON(t, env.server, http.MethodPost, "/turns/turn-1/cancel", map[string]any{
		"organizer_id": "p2",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, env.server, http.MethodPost, "/turns/turn-1/cancel", map[string]any{
		"organizer_id": "org-1", "message": "lluvia",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// Cancelling again is a conflict.
	rr = doJSON(t, env.server, http.MethodPost, "/turns/turn-1/cancel", map[string]any{
		"organizer_id": "org-1",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestExternalRequestFlowOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")
	env.seedPlayer("outsider", rules.GenderMale, "5ta")
	env.seedTurn("turn-1", "org-1")

	rr := doJSON(t, env.server, http.MethodPost, "/turns/turn-1/requests", map[string]any{
		"player_id": "outsider", "message": "puedo?",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var inv invites.Invitation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &inv))
	assert.True(t, inv.IsExternalRequest)

	// Only the organizer sees pending requests.
	rr = doJSON(t, env.server, http.MethodGet, "/turns/turn-1/requests?actor_id=outsider", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, env.server, http.MethodGet, "/turns/turn-1/requests?actor_id=org-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []*invites.Invitation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rr = doJSON(t, env.server, http.MethodPost, "/invitations/"+inv.ID+"/approve", map[string]any{
		"actor_id": "org-1",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var approved invites.Invitation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &approved))
	assert.False(t, approved.IsExternalRequest)
	assert.Equal(t, invites.StatusPending, approved.Status)
}

func TestCanInviteHandler(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")
	env.seedTurn("turn-1", "org-1")

	rr := doJSON(t, env.server, http.MethodGet, "/turns/turn-1/can-invite", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, env.server, http.MethodGet, "/turns/turn-1/can-invite?player_id=org-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var report engine.CanInviteReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.True(t, report.CanInvite)
	assert.True(t, report.IsOrganizer)
}

func TestSearchCandidatesHandler(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")
	env.seedPlayer("p2", rules.GenderMale, "5ta")
	env.seedTurn("turn-1", "org-1")

	rr := doJSON(t, env.server, http.MethodGet, "/turns/turn-1/candidates", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []*players.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)
}

func TestListPlayerTurnsHandler(t *testing.T) {
	env := setupTestServer(t)
	env.seedPlayer("org-1", rules.GenderMale, "5ta")
	env.seedTurn("turn-1", "org-1")

	rr := doJSON(t, env.server, http.MethodGet, "/players/org-1/turns", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []*turns.Turn
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "turn-1", list[0].ID)
}
