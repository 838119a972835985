package handlers

import (
	"net/http"

	"github.com/courtsidehq/courtside/services"
)

// PublicHandler serves the display-key-guarded read API used by overlay
// and scoreboard display clients. Every route sits behind the DisplayAuth
// middleware; no scorer identity is involved.
type PublicHandler struct {
	tournamentService services.TournamentService
	matchService      services.MatchService
}

func NewPublicHandler(ts services.TournamentService, ms services.MatchService) *PublicHandler {
	return &PublicHandler{
		tournamentService: ts,
		matchService:      ms,
	}
}

// ListTournamentsHandler handles GET /public/tournaments.
func (h *PublicHandler) ListTournamentsHandler(w http.ResponseWriter, r *http.Request) {
	status, err := tournamentStatusFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.List(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTournamentHandler handles GET /public/tournaments/{tournamentID}.
func (h *PublicHandler) GetTournamentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTournamentMatchesHandler handles
// GET /public/tournaments/{tournamentID}/matches with optional round and
// status filters. Brackets are not a stored entity; matches carry their
// round and linkage, so this list is what display clients render a
// bracket from.
func (h *PublicHandler) ListTournamentMatchesHandler(w http.ResponseWriter, r *http.Request) {
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

// GetMatchHandler handles GET /public/matches/{matchID}.
func (h *PublicHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
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
