package handlers

import (
	"errors"
	"net/http"

	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/services"
)

// TournamentHandler serves the authenticated read surface of tournaments.
// Tournaments are created and managed by the platform's registration
// system; scoring only reads them.
type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// ListHandler handles GET /tournaments with an optional status filter.
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
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

// GetByIDHandler handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
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

func tournamentStatusFilter(r *http.Request) (*models.TournamentStatus, error) {
	statusStr := r.URL.Query().Get("status")
	if statusStr == "" {
		return nil, nil
	}

	s := models.TournamentStatus(statusStr)
	switch s {
	case models.StatusSoon, models.StatusRegistration, models.StatusActive,
		models.StatusCompleted, models.StatusCanceled:
		return &s, nil
	default:
		return nil, errors.New("invalid status query parameter")
	}
}
