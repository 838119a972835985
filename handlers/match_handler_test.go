package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsidehq/courtside/livedata"
	"github.com/courtsidehq/courtside/middleware"
	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/services"
)

var testJWTSecret = []byte("handler-test-secret")

// fakeMatchService records calls and returns canned results so handler
// tests cover routing, decoding and error mapping only.
type fakeMatchService struct {
	created  *models.Match
	live     *services.LiveMatch
	list     []services.LiveMatch
	err      error
	snapshot []byte

	gotMatchID int
	gotSide    models.Side
	gotServer  models.Side
	gotActor   services.Actor
	gotRound   *int
	gotStatus  *models.MatchStatus
}

func (f *fakeMatchService) Create(_ context.Context, match *models.Match) (*models.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = match
	out := *match
	out.ID = 42
	out.Status = models.MatchStatusScheduled
	return &out, nil
}

func (f *fakeMatchService) Start(_ context.Context, matchID int, firstServer models.Side, actor services.Actor) (*services.LiveMatch, error) {
	f.gotMatchID, f.gotServer, f.gotActor = matchID, firstServer, actor
	return f.live, f.err
}

func (f *fakeMatchService) ApplyPoint(_ context.Context, matchID int, side models.Side, actor services.Actor) (*services.LiveMatch, error) {
	f.gotMatchID, f.gotSide, f.gotActor = matchID, side, actor
	return f.live, f.err
}

func (f *fakeMatchService) Undo(_ context.Context, matchID int, actor services.Actor) (*services.LiveMatch, error) {
	f.gotMatchID, f.gotActor = matchID, actor
	return f.live, f.err
}

func (f *fakeMatchService) Complete(_ context.Context, matchID int, actor services.Actor) (*services.LiveMatch, error) {
	f.gotMatchID, f.gotActor = matchID, actor
	return f.live, f.err
}

func (f *fakeMatchService) ResolveBye(_ context.Context, matchID int) (*services.LiveMatch, error) {
	f.gotMatchID = matchID
	return f.live, f.err
}

func (f *fakeMatchService) Cancel(_ context.Context, matchID int, actor services.Actor) (*services.LiveMatch, error) {
	f.gotMatchID, f.gotActor = matchID, actor
	return f.live, f.err
}

func (f *fakeMatchService) ImportSnapshot(_ context.Context, matchID int, doc []byte, actor services.Actor) (*services.LiveMatch, error) {
	f.gotMatchID, f.snapshot, f.gotActor = matchID, doc, actor
	return f.live, f.err
}

func (f *fakeMatchService) GetLiveMatch(_ context.Context, matchID int) (*services.LiveMatch, error) {
	f.gotMatchID = matchID
	return f.live, f.err
}

func (f *fakeMatchService) ListByTournament(_ context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]services.LiveMatch, error) {
	f.gotMatchID, f.gotRound, f.gotStatus = tournamentID, round, status
	return f.list, f.err
}

func newTestRouter(svc services.MatchService) *chi.Mux {
	router := chi.NewRouter()
	handler := NewMatchHandler(svc)

	router.Route("/matches", func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Post("/", handler.CreateHandler)
		r.Get("/{matchID}", handler.GetByIDHandler)
		r.Post("/{matchID}/start", handler.StartHandler)
		r.Post("/{matchID}/points", handler.ApplyPointHandler)
		r.Post("/{matchID}/undo", handler.UndoHandler)
		r.Post("/{matchID}/snapshot", handler.ImportSnapshotHandler)
	})
	router.Get("/tournaments/{tournamentID}/matches", handler.ListByTournamentHandler)

	return router
}

func authHeader(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"role":    role,
	})
	signed, err := token.SignedString(testJWTSecret)
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(t *testing.T, router http.Handler, method, target, role string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if role != "" {
		req.Header.Set("Authorization", authHeader(t, role))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func sampleLiveMatch() *services.LiveMatch {
	return &services.LiveMatch{
		MatchPayload: livedata.MatchPayload{
			MatchID:      3,
			TournamentID: 1,
			Round:        1,
			Sport:        "tennis",
			Source:       "engine",
			Status:       "live",
			Version:      4,
		},
		UndoDepth: 4,
	}
}

func TestCreateMatchEndpoint(t *testing.T) {
	svc := &fakeMatchService{}
	router := newTestRouter(svc)

	body := `{
		"tournament_id": 1,
		"bracket_type": "single_elimination",
		"round": 1,
		"p1_participant_id": 10,
		"p2_participant_id": 11,
		"source": "engine",
		"config": {"sport": "tennis", "sets_to_win": 2}
	}`
	rec := doRequest(t, router, http.MethodPost, "/matches", "organizer", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	envelope := decodeEnvelope(t, rec)
	var match models.Match
	require.NoError(t, json.Unmarshal(envelope["match"], &match))
	assert.Equal(t, 42, match.ID)
	assert.Equal(t, models.SportTennis, match.Config.Sport)

	require.NotNil(t, svc.created)
	assert.Equal(t, 1, svc.created.TournamentID)
	assert.Equal(t, 10, *svc.created.P1ParticipantID)
}

func TestCreateMatchRejectsViewer(t *testing.T) {
	svc := &fakeMatchService{}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/matches", "viewer", `{"tournament_id": 1}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, svc.created)
}

func TestCreateMatchBodyTaxonomy(t *testing.T) {
	router := newTestRouter(&fakeMatchService{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed", body: `{"tournament_id": `, want: "badly-formed JSON"},
		{name: "unknown key", body: `{"tournament": 1}`, want: "unknown key"},
		{name: "empty", body: "", want: "must not be empty"},
		{name: "wrong type", body: `{"tournament_id": "one"}`, want: "incorrect JSON type"},
		{name: "trailing value", body: `{"tournament_id": 1}{"round": 2}`, want: "single JSON value"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/matches", "organizer", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	svc := &fakeMatchService{live: sampleLiveMatch()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/matches/3/points", "", `{"side": "A"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.gotMatchID)
}

func TestStartEndpointParsesFirstServer(t *testing.T) {
	svc := &fakeMatchService{live: sampleLiveMatch()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/matches/3/start", "scorer", `{"first_server": "B"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotMatchID)
	assert.Equal(t, models.SideB, svc.gotServer)
	assert.Equal(t, services.Actor{UserID: 7, CanScore: true}, svc.gotActor)
}

func TestApplyPointEndpoint(t *testing.T) {
	svc := &fakeMatchService{live: sampleLiveMatch()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/matches/3/points", "scorer", `{"side": "2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotMatchID)
	assert.Equal(t, models.SideB, svc.gotSide)

	envelope := decodeEnvelope(t, rec)
	var live services.LiveMatch
	require.NoError(t, json.Unmarshal(envelope["match"], &live))
	assert.Equal(t, 3, live.MatchID)
	assert.Equal(t, 4, live.UndoDepth)
}

func TestApplyPointRejectsUnknownSide(t *testing.T) {
	svc := &fakeMatchService{live: sampleLiveMatch()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/matches/3/points", "scorer", `{"side": "C"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.gotMatchID)
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: services.ErrMatchNotFound, wantStatus: http.StatusNotFound},
		{name: "version conflict", err: services.ErrConcurrencyConflict, wantStatus: http.StatusConflict},
		{name: "invalid transition", err: services.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "downstream started", err: services.ErrDownstreamStarted, wantStatus: http.StatusConflict},
		{name: "bad configuration", err: services.ErrInvalidConfiguration, wantStatus: http.StatusUnprocessableEntity},
		{name: "not scoreable", err: services.ErrMatchNotScoreable, wantStatus: http.StatusConflict},
		{name: "empty history", err: services.ErrHistoryEmpty, wantStatus: http.StatusConflict},
		{name: "forbidden", err: services.ErrScoreForbidden, wantStatus: http.StatusForbidden},
		{name: "snapshot parse", err: &livedata.ParseError{Field: "sets[0]", Msg: "want a pair"}, wantStatus: http.StatusBadRequest},
		{name: "unexpected", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeMatchService{err: tc.err}
			router := newTestRouter(svc)

			rec := doRequest(t, router, http.MethodPost, "/matches/3/points", "scorer", `{"side": "A"}`)

			assert.Equal(t, tc.wantStatus, rec.Code)
			envelope := decodeEnvelope(t, rec)
			require.Contains(t, envelope, "error")
			if tc.wantStatus == http.StatusInternalServerError {
				// Internal details never leak to clients.
				assert.NotContains(t, rec.Body.String(), "connection reset")
			}
		})
	}
}

func TestUndoEndpoint(t *testing.T) {
	svc := &fakeMatchService{live: sampleLiveMatch()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/matches/3/undo", "admin", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotMatchID)
	assert.True(t, svc.gotActor.CanScore)
}

func TestImportSnapshotEndpointPassesRawBody(t *testing.T) {
	svc := &fakeMatchService{live: sampleLiveMatch()}
	router := newTestRouter(svc)

	doc := `{"sets": [[6, 4]], "currentSetGames": [1, 0], "currentGamePoints": [0, 0], "servingPlayer": 1}`
	rec := doRequest(t, router, http.MethodPost, "/matches/3/snapshot", "scorer", doc)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotMatchID)
	assert.JSONEq(t, doc, string(svc.snapshot))
}

func TestGetMatchEndpoint(t *testing.T) {
	svc := &fakeMatchService{live: sampleLiveMatch()}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/matches/3", "viewer", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotMatchID)

	// writeJSON emits tab-indented documents.
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{\n\t\"match\""))
}

func TestGetMatchInvalidID(t *testing.T) {
	router := newTestRouter(&fakeMatchService{})

	rec := doRequest(t, router, http.MethodGet, "/matches/abc", "viewer", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListByTournamentEndpointFilters(t *testing.T) {
	svc := &fakeMatchService{list: []services.LiveMatch{*sampleLiveMatch()}}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/tournaments/1/matches?round=2&status=live", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.gotMatchID)
	require.NotNil(t, svc.gotRound)
	assert.Equal(t, 2, *svc.gotRound)
	require.NotNil(t, svc.gotStatus)
	assert.Equal(t, models.MatchStatusLive, *svc.gotStatus)
}

func TestListByTournamentRejectsBadFilters(t *testing.T) {
	router := newTestRouter(&fakeMatchService{})

	for _, target := range []string{
		"/tournaments/1/matches?round=0",
		"/tournaments/1/matches?round=first",
		"/tournaments/1/matches?status=paused",
	} {
		rec := doRequest(t, router, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}
