package livedata

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/courtsidehq/courtside/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadFixture() (*models.Match, *models.Tournament, *models.Participant, *models.Participant) {
	court := "Court 1"
	state := models.NewMatchState(models.SideA)
	state.Sets = []models.Pair{{6, 4}}
	state.CurrentSetGames = models.NewPair(2, 1)
	state.CurrentGamePoints = models.NewPair(3, 3)
	state.CurrentSetNumber = 2
	state.ServingSide = models.SideB

	p1 := 11
	p2 := 12
	m := &models.Match{
		ID:              104,
		TournamentID:    7,
		BracketType:     models.BracketSingleElimination,
		Round:           2,
		P1ParticipantID: &p1,
		P2ParticipantID: &p2,
		Source:          models.SourceEngine,
		Status:          models.MatchStatusLive,
		Court:           &court,
		Config: models.MatchConfig{
			Sport:     models.SportTennis,
			SetsToWin: 2,
			AdScoring: true,
		}.Normalized(),
		State:     &state,
		Version:   9,
		CreatedAt: time.Now(),
	}
	tournament := &models.Tournament{ID: 7, Name: "City Open", Status: models.StatusActive}
	esp, bra := "ESP", "BRA"
	seed := 1
	garcia := &models.Participant{ID: 11, TournamentID: 7, DisplayName: "Garcia", Country: &esp, Seed: &seed}
	silva := &models.Participant{ID: 12, TournamentID: 7, DisplayName: "Silva", Country: &bra}
	return m, tournament, garcia, silva
}

func TestNewMatchPayload(t *testing.T) {
	m, tournament, garcia, silva := payloadFixture()
	payload := NewMatchPayload(m, tournament, garcia, silva)

	assert.Equal(t, 104, payload.MatchID)
	assert.Equal(t, "live", payload.Status)
	assert.Equal(t, payload.Status, payload.LegacyStatus)
	assert.Equal(t, "City Open", payload.TournamentName)
	assert.Equal(t, "tennis", payload.Sport)
	assert.Equal(t, 9, payload.Version)
	assert.Equal(t, "Court 1", payload.Court)

	require.NotNil(t, payload.Participant1)
	assert.Equal(t, "Garcia", payload.Participant1.DisplayName)
	assert.Equal(t, "ESP", payload.Participant1.Country)
	assert.Equal(t, 1, payload.Participant1.Seed)

	require.NotNil(t, payload.Score)
	assert.Equal(t, 1, payload.Score.Player1Sets)
	assert.Equal(t, 0, payload.Score.Player2Sets)
	assert.Equal(t, 2, payload.Score.Player1Games)
	assert.Equal(t, "40", payload.Score.Player1Points)
	assert.Equal(t, "40", payload.Score.Player2Points)
	assert.Equal(t, "Deuce", payload.ScoreStatus)

	require.NotNil(t, payload.State)
	assert.Equal(t, 2, payload.State.ServingParticipant)
	assert.Equal(t, models.SideB, payload.State.ServingSide)
}

func TestMatchPayloadLegacyKeyTwins(t *testing.T) {
	m, tournament, garcia, silva := payloadFixture()
	raw, err := json.Marshal(NewMatchPayload(m, tournament, garcia, silva))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "status")
	assert.Contains(t, doc, "matchStatus")
	assert.Contains(t, doc, "tournament_name")
	assert.Contains(t, doc, "tournament")

	var score map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["score"], &score))
	for _, twins := range [][2]string{
		{"player1_sets", "player1Sets"},
		{"player2_sets", "player2Sets"},
		{"player1_games", "player1Games"},
		{"player2_games", "player2Games"},
		{"player1_points", "player1Points"},
		{"player2_points", "player2Points"},
	} {
		require.Contains(t, score, twins[0])
		require.Contains(t, score, twins[1])
		assert.JSONEq(t, string(score[twins[0]]), string(score[twins[1]]), "twin %s", twins[1])
	}

	var state map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["state"], &state))
	for _, twins := range [][2]string{
		{"current_set_games", "currentSetGames"},
		{"current_game_points", "currentGamePoints"},
		{"tiebreak_points", "tiebreakPoints"},
		{"current_set_number", "currentSet"},
		{"is_tiebreak", "isTiebreak"},
		{"is_match_complete", "isMatchComplete"},
	} {
		require.Contains(t, state, twins[0])
		require.Contains(t, state, twins[1])
		assert.JSONEq(t, string(state[twins[0]]), string(state[twins[1]]), "twin %s", twins[1])
	}
	assert.Contains(t, state, "servingParticipant")
	assert.Equal(t, "2", string(state["servingParticipant"]))
}

func TestNewMatchPayloadWithoutState(t *testing.T) {
	m, tournament, garcia, silva := payloadFixture()
	m.State = nil
	m.Status = models.MatchStatusScheduled

	payload := NewMatchPayload(m, tournament, garcia, silva)
	assert.Nil(t, payload.Score)
	assert.Nil(t, payload.State)
	assert.Empty(t, payload.ScoreStatus)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"score"`)
}

func TestNewMatchPayloadOpenSlots(t *testing.T) {
	m, tournament, _, silva := payloadFixture()
	m.P1ParticipantID = nil

	payload := NewMatchPayload(m, tournament, nil, silva)
	assert.Nil(t, payload.Participant1)
	require.NotNil(t, payload.Participant2)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"participant1":null`)
}

// The state document we broadcast must parse back through the ingest path
// unchanged, so a courtside instance can mirror another one as an external
// feed.
func TestStatePayloadRoundTripsThroughIngest(t *testing.T) {
	m, tournament, garcia, silva := payloadFixture()
	payload := NewMatchPayload(m, tournament, garcia, silva)

	raw, err := json.Marshal(payload.State)
	require.NoError(t, err)

	back, err := ParseSnapshot(raw)
	require.NoError(t, err)
	assert.True(t, m.State.Equal(back), "want %+v, got %+v", *m.State, back)
}
