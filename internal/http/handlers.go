package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/padelclub/turnero/internal/engine"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/turns"
)

// statusForCode maps engine error codes onto HTTP status codes. Conflicts
// of state, capacity and concurrency all surface as 409 so clients retry
// or refresh; rule violations are 422.
func statusForCode(code engine.ErrorCode) int {
	switch code {
	case engine.CodeNotFound:
		return http.StatusNotFound
	case engine.CodePermissionDenied:
		return http.StatusForbidden
	case engine.CodeInvalidState, engine.CodeDuplicateOperation, engine.CodeCapacityExceeded, engine.CodeConcurrencyConflict:
		return http.StatusConflict
	case engine.CodeConstraintViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Code    engine.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := engine.CodeOf(err)
	if code == "" {
		log.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "internal error"})
		return
	}
	writeJSON(w, statusForCode(code), errorResponse{Code: code, Message: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn("Invalid request body", "url", r.URL.String(), "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "invalid request body"})
		return false
	}
	return true
}

// dispatch hands the operation's events to the dispatcher. Delivery runs
// in the request goroutine; the dispatcher never fails the request.
func (s *Server) dispatch(evts []events.Event) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(evts)
	}
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// StatsHandler exposes the durable operational counters.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := s.MetricsStore.GetAll()
		if err != nil {
			log.Error("Failed to load stats", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "failed to load stats"})
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

type createTurnRequest struct {
	TemplateID              string `json:"template_id"`
	CourtID                 string `json:"court_id"`
	Date                    string `json:"date"`
	StartTime               string `json:"start_time"`
	EndTime                 string `json:"end_time"`
	PriceCents              int64  `json:"price_cents"`
	OrganizerID             string `json:"organizer_id"`
	Side                    string `json:"side"`
	CourtPosition           int    `json:"court_position"`
	CategoryRestricted      bool   `json:"category_restricted"`
	CategoryRestrictionType string `json:"category_restriction_type"`
	IsMixedMatch            bool   `json:"is_mixed_match"`
	FreeCategory            bool   `json:"free_category"`
}

func (s *Server) CreateTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTurnRequest
		if !decodeBody(w, r, &req) {
			return
		}
		turn, evts, err := s.Engine.CreateTurn(r.Context(), engine.CreateTurnParams{
			TemplateID:              req.TemplateID,
			CourtID:                 req.CourtID,
			Date:                    req.Date,
			StartTime:               req.StartTime,
			EndTime:                 req.EndTime,
			PriceCents:              req.PriceCents,
			OrganizerID:             req.OrganizerID,
			Side:                    req.Side,
			CourtPosition:           req.CourtPosition,
			CategoryRestricted:      req.CategoryRestricted,
			CategoryRestrictionType: turns.CategoryRestriction(req.CategoryRestrictionType),
			IsMixedMatch:            req.IsMixedMatch,
			FreeCategory:            req.FreeCategory,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusCreated, turn)
	}
}

func (s *Server) GetTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turn, err := s.Engine.GetTurn(r.Context(), r.PathValue("turnID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, turn)
	}
}

func (s *Server) CountPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.Engine.CountPlayers(r.Context(), r.PathValue("turnID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"player_count": count})
	}
}

type cancelTurnRequest struct {
	OrganizerID string `json:"organizer_id"`
	Message     string `json:"message"`
}

func (s *Server) CancelTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cancelTurnRequest
		if !decodeBody(w, r, &req) {
			return
		}
		evts, err := s.Engine.CancelCompleteTurn(r.Context(), r.PathValue("turnID"), req.OrganizerID, req.Message)
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

type leaveTurnRequest struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

func (s *Server) LeaveTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leaveTurnRequest
		if !decodeBody(w, r, &req) {
			return
		}
		evts, err := s.Engine.CancelIndividualPosition(r.Context(), r.PathValue("turnID"), req.PlayerID, req.Message)
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
	}
}

type createInvitationsRequest struct {
	InviterID string   `json:"inviter_id"`
	PlayerIDs []string `json:"player_ids"`
	Message   string   `json:"message"`
}

func (s *Server) CreateInvitationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInvitationsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		result, evts, err := s.Engine.CreateInvitations(r.Context(), r.PathValue("turnID"), req.InviterID, req.PlayerIDs, req.Message)
		if err != nil {
			// Per-target failures come back alongside the error; a batch
			// where nothing was created still tells the client why.
			if result != nil {
				writeJSON(w, statusForCode(engine.CodeOf(err)), result)
				return
			}
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusCreated, result)
	}
}

func (s *Server) ListTurnInvitationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Engine.InvitationsForTurn(r.Context(), r.PathValue("turnID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) CanInviteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("player_id")
		if playerID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "player_id is required"})
			return
		}
		report, err := s.Engine.CanInvite(r.Context(), r.PathValue("turnID"), playerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

type joinRequest struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

func (s *Server) RequestToJoinHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinRequest
		if !decodeBody(w, r, &req) {
			return
		}
		inv, evts, err := s.Engine.RequestToJoin(r.Context(), r.PathValue("turnID"), req.PlayerID, req.Message)
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusCreated, inv)
	}
}

func (s *Server) ListExternalRequestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := r.URL.Query().Get("actor_id")
		if actorID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: "actor_id is required"})
			return
		}
		list, err := s.Engine.ExternalRequests(r.Context(), r.PathValue("turnID"), actorID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) SearchCandidatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Engine.SearchPlayers(r.Context(), r.PathValue("turnID"), r.URL.Query().Get("query"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type respondRequest struct {
	PlayerID      string `json:"player_id"`
	Decision      string `json:"decision"`
	Side          string `json:"side"`
	CourtPosition int    `json:"court_position"`
}

func (s *Server) RespondHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req respondRequest
		if !decodeBody(w, r, &req) {
			return
		}
		inv, evts, err := s.Engine.Respond(r.Context(), engine.RespondParams{
			InvitationID:  r.PathValue("invitationID"),
			PlayerID:      req.PlayerID,
			Decision:      engine.Decision(req.Decision),
			Side:          req.Side,
			CourtPosition: req.CourtPosition,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusOK, inv)
	}
}

type actorRequest struct {
	ActorID string `json:"actor_id"`
}

func (s *Server) ApproveRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		inv, evts, err := s.Engine.ApproveExternal(r.Context(), r.PathValue("invitationID"), req.ActorID)
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusOK, inv)
	}
}

func (s *Server) RejectRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		evts, err := s.Engine.RejectExternal(r.Context(), r.PathValue("invitationID"), req.ActorID)
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
	}
}

func (s *Server) CancelInvitationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		evts, err := s.Engine.CancelInvitation(r.Context(), r.PathValue("invitationID"), req.ActorID)
		if err != nil {
			writeError(w, err)
			return
		}
		s.dispatch(evts)
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

func (s *Server) ListPlayerTurnsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Turns.ListForPlayer(r.PathValue("playerID"))
		if err != nil {
			log.Error("Failed to list player turns", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "failed to list turns"})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) ReceivedInvitationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Engine.ReceivedInvitations(r.Context(), r.PathValue("playerID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) PendingInvitationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Engine.PendingInvitationsFor(r.Context(), r.PathValue("playerID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) SentInvitationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Engine.SentInvitations(r.Context(), r.PathValue("playerID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
