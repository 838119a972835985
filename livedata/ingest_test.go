package livedata

import (
	"errors"
	"testing"

	"github.com/courtsidehq/courtside/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) models.MatchState {
	t.Helper()
	state, err := ParseSnapshot([]byte(doc))
	require.NoError(t, err)
	return state
}

func parseField(t *testing.T, doc string) string {
	t.Helper()
	_, err := ParseSnapshot([]byte(doc))
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
	return pe.Field
}

func TestParseSnapshotCanonicalShape(t *testing.T) {
	state := mustParse(t, `{
		"sets": [[6,4],[3,6]],
		"current_set_games": [5,5],
		"current_game_points": [3,2],
		"serving_side": 1,
		"first_server_of_set": 0,
		"current_set_number": 3
	}`)

	assert.Equal(t, []models.Pair{{6, 4}, {3, 6}}, state.Sets)
	assert.Equal(t, models.NewPair(5, 5), state.CurrentSetGames)
	assert.Equal(t, models.NewPair(3, 2), state.CurrentGamePoints)
	assert.Equal(t, models.SideB, state.ServingSide)
	assert.Equal(t, models.SideA, state.FirstServerOfSet)
	assert.Equal(t, 3, state.CurrentSetNumber)
	assert.False(t, state.IsTiebreak)
	assert.False(t, state.IsMatchComplete)
}

func TestParseSnapshotCamelOverlayShape(t *testing.T) {
	state := mustParse(t, `{
		"sets": [[7,6]],
		"currentSetGames": [6,6],
		"currentGamePoints": [0,0],
		"tiebreakPoints": [4,3],
		"isTiebreak": true,
		"servingParticipant": 2
	}`)

	assert.Equal(t, []models.Pair{{7, 6}}, state.Sets)
	assert.Equal(t, models.NewPair(6, 6), state.CurrentSetGames)
	assert.True(t, state.IsTiebreak)
	assert.Equal(t, models.NewPair(4, 3), state.TiebreakPoints)
	assert.Equal(t, models.SideB, state.ServingSide)
	assert.Equal(t, 2, state.CurrentSetNumber)
}

func TestParseSnapshotFeedShape(t *testing.T) {
	state := mustParse(t, `{
		"matchId": "ext-104",
		"matchStatus": "in_progress",
		"servingPlayer": 1,
		"currentSet": 4,
		"isTiebreak": false,
		"score": {
			"player1Sets": 2, "player2Sets": 1,
			"player1Games": 4, "player2Games": 3,
			"player1Points": "30", "player2Points": "15"
		},
		"sets": [
			{"player1Games": 6, "player2Games": 4, "completed": true},
			{"player1Games": 5, "player2Games": 7, "completed": true},
			{"player1Games": 7, "player2Games": 5, "completed": true},
			{"player1Games": 4, "player2Games": 3, "completed": false}
		]
	}`)

	assert.Equal(t, []models.Pair{{6, 4}, {5, 7}, {7, 5}}, state.Sets)
	assert.Equal(t, models.NewPair(4, 3), state.CurrentSetGames)
	assert.Equal(t, models.NewPair(2, 1), state.CurrentGamePoints)
	assert.Equal(t, models.SideA, state.ServingSide)
	assert.Equal(t, 4, state.CurrentSetNumber)
}

func TestParseSnapshotKeyedSetsObject(t *testing.T) {
	state := mustParse(t, `{
		"serving_player": 2,
		"sets": {"2": {"player1": 3, "player2": 6}, "1": {"player1": 6, "player2": 2}}
	}`)

	assert.Equal(t, []models.Pair{{6, 2}, {3, 6}}, state.Sets)
}

func TestParseSnapshotAdvantageLabels(t *testing.T) {
	for _, label := range []string{"AD", "Ad", "ad", "a", "advantage"} {
		state := mustParse(t, `{
			"servingParticipant": 1,
			"score": {"player1Points": "`+label+`", "player2Points": "40"}
		}`)
		assert.Equal(t, models.NewPair(4, 3), state.CurrentGamePoints, "label %q", label)
	}

	state := mustParse(t, `{
		"servingParticipant": 1,
		"score": {"player1Points": "love", "player2Points": 15}
	}`)
	assert.Equal(t, models.NewPair(0, 15), state.CurrentGamePoints)
}

func TestParseSnapshotTiebreakScoreObject(t *testing.T) {
	state := mustParse(t, `{
		"servingPlayer": 1,
		"currentSetGames": [6,6],
		"isTiebreak": true,
		"tiebreakScore": {"player1": 5, "player2": 3}
	}`)

	assert.True(t, state.IsTiebreak)
	assert.Equal(t, models.NewPair(5, 3), state.TiebreakPoints)
}

func TestParseSnapshotRejectsMissingServeIndicator(t *testing.T) {
	assert.Equal(t, "servingParticipant", parseField(t, `{"sets": [[6,4]]}`))
	assert.Equal(t, "servingParticipant", parseField(t, `{}`))
}

func TestParseSnapshotRejectsEmptyScore(t *testing.T) {
	assert.Equal(t, "snapshot", parseField(t, `{"servingParticipant": 1}`))
}

func TestParseSnapshotRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"unknown point label", `{"servingPlayer":1,"score":{"player1Points":"banana","player2Points":"0"}}`, "score.player1Points"},
		{"serving participant out of range", `{"servingParticipant":3,"sets":[]}`, "servingParticipant"},
		{"side index out of range", `{"serving_side":2,"sets":[]}`, "serving_side"},
		{"digit side string", `{"serving_side":"1","sets":[]}`, "serving_side"},
		{"negative games", `{"servingPlayer":1,"current_set_games":[-1,0]}`, "current_set_games[0]"},
		{"three entry pair", `{"servingPlayer":1,"current_set_games":[1,2,3]}`, "current_set_games"},
		{"tied set", `{"servingPlayer":1,"sets":[[5,5]]}`, "sets[0]"},
		{"non numeric set key", `{"servingPlayer":1,"sets":{"first":{"player1":6,"player2":4}}}`, "sets"},
		{"both sides advantage", `{"servingPlayer":1,"score":{"player1Points":"AD","player2Points":"AD"}}`, "score.player2Points"},
		{"summary without detail", `{"servingPlayer":1,"score":{"player1Sets":2,"player2Sets":0}}`, "sets"},
		{"summary disagrees", `{"servingPlayer":1,"sets":[[6,4]],"score":{"player1Sets":2,"player2Sets":0}}`, "score.player1Sets"},
		{"one sided points", `{"servingPlayer":1,"score":{"player1Points":"30"}}`, "score.player2Points"},
		{"tiebreak points without flag", `{"servingPlayer":1,"tiebreakPoints":[3,1]}`, "tiebreak_points"},
		{"set number disagrees", `{"servingPlayer":1,"sets":[[6,4]],"currentSet":3}`, "current_set"},
		{"malformed document", `{"servingPlayer":`, "snapshot"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.field, parseField(t, tc.doc))
		})
	}
}

func TestParseSnapshotIgnoresUnknownKeys(t *testing.T) {
	state := mustParse(t, `{
		"servingParticipant": 1,
		"sets": [],
		"tournament": "City Open",
		"round": "Final",
		"player1": {"name": "Garcia", "country": "ESP"}
	}`)
	assert.Empty(t, state.Sets)
}

func TestParseSnapshotNullsAreAbsent(t *testing.T) {
	state := mustParse(t, `{
		"servingParticipant": 1,
		"sets": [[6,4]],
		"tiebreakScore": null,
		"currentSetGames": null
	}`)
	assert.True(t, state.TiebreakPoints.IsZero())
	assert.True(t, state.CurrentSetGames.IsZero())
}

func TestParseSnapshotVolleyballShape(t *testing.T) {
	state := mustParse(t, `{
		"serving_side": "B",
		"sets": [[25,20],[23,25]],
		"current_set_points": [12,9],
		"current_set_number": 3
	}`)

	assert.Equal(t, models.NewPair(12, 9), state.CurrentSetPoints)
	assert.Equal(t, models.SideB, state.ServingSide)
	assert.Equal(t, 3, state.CurrentSetNumber)
}
