package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/courtsidehq/courtside/middleware"
	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: ms,
	}
}

// CreateMatchInput is the write shape for POST /matches. Bracket linkage
// comes from whatever generated the topology; this service only stores it.
type CreateMatchInput struct {
	TournamentID       int                `json:"tournament_id"`
	BracketType        models.BracketType `json:"bracket_type"`
	Round              int                `json:"round"`
	P1ParticipantID    *int               `json:"p1_participant_id"`
	P2ParticipantID    *int               `json:"p2_participant_id"`
	Source             models.MatchSource `json:"source"`
	Court              *string            `json:"court"`
	Config             models.MatchConfig `json:"config"`
	NextMatchDBID      *int               `json:"next_match_db_id"`
	WinnerToSlot       *int               `json:"winner_to_slot"`
	LoserNextMatchDBID *int               `json:"loser_next_match_db_id"`
	LoserToSlot        *int               `json:"loser_to_slot"`
}

// CreateHandler godoc
// @Summary Create a match
// @Tags matches
// @Description Creates a scheduled match with its scoring configuration and bracket linkage.
// @Accept json
// @Produce json
// @Param body body CreateMatchInput true "Match definition"
// @Success 201 {object} map[string]interface{} "Created match"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Failure 403 {object} map[string]string "Role cannot score"
// @Failure 404 {object} map[string]string "Tournament or participant not found"
// @Failure 422 {object} map[string]string "Configuration rejected by the engine"
// @Security BearerAuth
// @Router /matches [post]
func (h *MatchHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	if !actor.CanScore {
		forbiddenResponse(w, r, services.ErrScoreForbidden.Error())
		return
	}

	var input CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match := &models.Match{
		TournamentID:       input.TournamentID,
		BracketType:        input.BracketType,
		Round:              input.Round,
		P1ParticipantID:    input.P1ParticipantID,
		P2ParticipantID:    input.P2ParticipantID,
		Source:             input.Source,
		Court:              input.Court,
		Config:             input.Config,
		NextMatchDBID:      input.NextMatchDBID,
		WinnerToSlot:       input.WinnerToSlot,
		LoserNextMatchDBID: input.LoserNextMatchDBID,
		LoserToSlot:        input.LoserToSlot,
	}

	created, err := h.matchService.Create(r.Context(), match)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Get one match with its live score
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Match payload"
// @Failure 404 {object} map[string]string "Match not found"
// @Security BearerAuth
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.matchService.GetLiveMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler godoc
// @Summary Start a scheduled match
// @Tags matches
// @Description Moves the match to live and seeds the initial state with the chosen first server.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body object true "First server, e.g. {'first_server': 'A'}"
// @Success 200 {object} map[string]interface{} "Live match"
// @Failure 400 {object} map[string]string "Unknown side or open slot"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Match is not scheduled"
// @Security BearerAuth
// @Router /matches/{matchID}/start [post]
func (h *MatchHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	matchID, actor, ok := h.commandPrelude(w, r)
	if !ok {
		return
	}

	var input struct {
		FirstServer string `json:"first_server"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	firstServer, err := models.ParseSide(input.FirstServer)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.matchService.Start(r.Context(), matchID, firstServer, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApplyPointHandler godoc
// @Summary Record a point
// @Tags matches
// @Description Awards one point to a side and returns the recomputed score.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body object true "Point winner, e.g. {'side': 'A'}"
// @Success 200 {object} map[string]interface{} "Live match"
// @Failure 400 {object} map[string]string "Unknown side"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Match not live, or concurrent edit (retry with fresh state)"
// @Security BearerAuth
// @Router /matches/{matchID}/points [post]
func (h *MatchHandler) ApplyPointHandler(w http.ResponseWriter, r *http.Request) {
	matchID, actor, ok := h.commandPrelude(w, r)
	if !ok {
		return
	}

	var input struct {
		Side string `json:"side"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	side, err := models.ParseSide(input.Side)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.matchService.ApplyPoint(r.Context(), matchID, side, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UndoHandler godoc
// @Summary Undo the last recorded point
// @Tags matches
// @Description Restores the previous state snapshot. Undoing a match-completing point also rolls back bracket advancement when the downstream match is still untouched.
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Live match"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Nothing to undo, or downstream match already progressed"
// @Security BearerAuth
// @Router /matches/{matchID}/undo [post]
func (h *MatchHandler) UndoHandler(w http.ResponseWriter, r *http.Request) {
	matchID, actor, ok := h.commandPrelude(w, r)
	if !ok {
		return
	}

	live, err := h.matchService.Undo(r.Context(), matchID, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CompleteHandler godoc
// @Summary Complete a generic match manually
// @Tags matches
// @Description Only generic matches complete this way; tennis and volleyball complete through the engine.
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Completed match"
// @Failure 400 {object} map[string]string "Tied score"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Match is not live or completes through the engine"
// @Security BearerAuth
// @Router /matches/{matchID}/complete [post]
func (h *MatchHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	matchID, actor, ok := h.commandPrelude(w, r)
	if !ok {
		return
	}

	live, err := h.matchService.Complete(r.Context(), matchID, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CancelHandler godoc
// @Summary Cancel a match
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Canceled match"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Match already completed"
// @Security BearerAuth
// @Router /matches/{matchID}/cancel [post]
func (h *MatchHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	matchID, actor, ok := h.commandPrelude(w, r)
	if !ok {
		return
	}

	live, err := h.matchService.Cancel(r.Context(), matchID, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveByeHandler godoc
// @Summary Resolve a bye match
// @Tags matches
// @Description Advances the sole participant of a half-filled match without playing it.
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Resolved match"
// @Failure 400 {object} map[string]string "Match has both participants or none"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Match is not scheduled"
// @Security BearerAuth
// @Router /matches/{matchID}/bye [post]
func (h *MatchHandler) ResolveByeHandler(w http.ResponseWriter, r *http.Request) {
	matchID, _, ok := h.commandPrelude(w, r)
	if !ok {
		return
	}

	live, err := h.matchService.ResolveBye(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportSnapshotHandler godoc
// @Summary Import an external scoreboard snapshot
// @Tags matches
// @Description The body is the raw scoreboard document; parsing happens in the livedata layer so every accepted external shape stays in one place.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body object true "Scoreboard document"
// @Success 200 {object} map[string]interface{} "Imported state"
// @Failure 400 {object} map[string]string "Unrecognized snapshot shape"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Concurrent edit"
// @Security BearerAuth
// @Router /matches/{matchID}/snapshot [post]
func (h *MatchHandler) ImportSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	matchID, actor, ok := h.commandPrelude(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	doc, err := io.ReadAll(r.Body)
	if err != nil {
		badRequestResponse(w, r, errors.New("could not read request body"))
		return
	}

	live, err := h.matchService.ImportSnapshot(r.Context(), matchID, doc, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": live}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournamentHandler godoc
// @Summary List matches of a tournament
// @Tags matches
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param round query int false "Filter by round, 1-based"
// @Param status query string false "Filter by status (scheduled, live, completed, bye, canceled)"
// @Success 200 {object} map[string]interface{} "Matches ordered by round and ID"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) ListByTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, status, err := matchListFilters(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, round, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// commandPrelude extracts the match ID and the verified actor shared by
// every scoring command. A false return means the response is already
// written.
func (h *MatchHandler) commandPrelude(w http.ResponseWriter, r *http.Request) (int, services.Actor, bool) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, services.Actor{}, false
	}

	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return 0, services.Actor{}, false
	}

	return matchID, actor, true
}

func matchListFilters(r *http.Request) (*int, *models.MatchStatus, error) {
	var round *int
	var status *models.MatchStatus
	query := r.URL.Query()

	if roundStr := query.Get("round"); roundStr != "" {
		n, err := strconv.Atoi(roundStr)
		if err != nil || n < 1 {
			return nil, nil, errors.New("invalid round query parameter")
		}
		round = &n
	}

	if statusStr := query.Get("status"); statusStr != "" {
		s := models.MatchStatus(statusStr)
		switch s {
		case models.MatchStatusScheduled, models.MatchStatusLive, models.MatchStatusCompleted,
			models.MatchStatusBye, models.MatchStatusCanceled:
			status = &s
		default:
			return nil, nil, errors.New("invalid status query parameter")
		}
	}

	return round, status, nil
}
