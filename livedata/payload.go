// Package livedata is the translation boundary between the canonical match
// model and the wire shapes overlay clients and external scoreboard feeds
// speak. Egress payloads carry legacy camelCase key twins next to the
// current snake_case names; ingest accepts the union of known feed shapes
// and converts them to models.MatchState, rejecting anything it does not
// recognize. Nothing outside this package deals in legacy spellings.
package livedata

import (
	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/scoring"
)

// MatchPayload is the egress document broadcast to match rooms and served
// by the public read API. It is rendered from committed state only, so
// every viewer of a match converges on the same score.
type MatchPayload struct {
	MatchID      int    `json:"match_id"`
	TournamentID int    `json:"tournament_id"`
	Round        int    `json:"round"`
	Court        string `json:"court,omitempty"`
	Sport        string `json:"sport"`
	Source       string `json:"source"`
	Version      int    `json:"version"`

	Status       string `json:"status"`
	LegacyStatus string `json:"matchStatus"`

	TournamentName   string `json:"tournament_name,omitempty"`
	LegacyTournament string `json:"tournament,omitempty"`

	Participant1 *ParticipantPayload `json:"participant1"`
	Participant2 *ParticipantPayload `json:"participant2"`

	// Score and State are absent until the match has live state.
	Score *ScorePayload `json:"score,omitempty"`
	State *StatePayload `json:"state,omitempty"`

	// ScoreStatus is the human line under the score: "Deuce",
	// "Advantage Garcia", "Tiebreak". Empty when nothing applies.
	ScoreStatus string `json:"score_status,omitempty"`
}

// ParticipantPayload uses the camelCase names overlay clients read.
// PlayerName carries the individual name of a doubles pair's first player
// and equals DisplayName for singles.
type ParticipantPayload struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
	PlayerName  string `json:"playerName,omitempty"`
	Player2Name string `json:"player2Name,omitempty"`
	Country     string `json:"country,omitempty"`
	Seed        int    `json:"seed,omitempty"`
}

// ScorePayload is the flat score summary older overlay clients consume.
// Point values are display labels ("30", "AD", tiebreak numerics), not
// ordinal counts. Every field is spelled both ways and the twins always
// hold equal values.
type ScorePayload struct {
	Player1Sets   int    `json:"player1_sets"`
	Player2Sets   int    `json:"player2_sets"`
	Player1Games  int    `json:"player1_games"`
	Player2Games  int    `json:"player2_games"`
	Player1Points string `json:"player1_points"`
	Player2Points string `json:"player2_points"`

	LegacyPlayer1Sets   int    `json:"player1Sets"`
	LegacyPlayer2Sets   int    `json:"player2Sets"`
	LegacyPlayer1Games  int    `json:"player1Games"`
	LegacyPlayer2Games  int    `json:"player2Games"`
	LegacyPlayer1Points string `json:"player1Points"`
	LegacyPlayer2Points string `json:"player2Points"`
}

// StatePayload is the canonical live state plus the camelCase twins the
// display apps read. ServingParticipant is 1 or 2; serving_side keeps the
// model's A/B index for newer clients.
type StatePayload struct {
	Sets              []models.Pair `json:"sets"`
	CurrentSetGames   models.Pair   `json:"current_set_games"`
	CurrentGamePoints models.Pair   `json:"current_game_points"`
	CurrentSetPoints  models.Pair   `json:"current_set_points"`
	IsTiebreak        bool          `json:"is_tiebreak"`
	TiebreakPoints    models.Pair   `json:"tiebreak_points"`
	CurrentSetNumber  int           `json:"current_set_number"`
	ServingSide       models.Side   `json:"serving_side"`
	FirstServerOfSet  models.Side   `json:"first_server_of_set"`
	IsMatchComplete   bool          `json:"is_match_complete"`

	ServingParticipant int `json:"servingParticipant"`

	LegacyCurrentSetGames   models.Pair `json:"currentSetGames"`
	LegacyCurrentGamePoints models.Pair `json:"currentGamePoints"`
	LegacyCurrentSetPoints  models.Pair `json:"currentSetPoints"`
	LegacyTiebreakPoints    models.Pair `json:"tiebreakPoints"`
	LegacyCurrentSet        int         `json:"currentSet"`
	LegacyIsTiebreak        bool        `json:"isTiebreak"`
	LegacyIsMatchComplete   bool        `json:"isMatchComplete"`
}

// NewMatchPayload renders one match into its egress form. Tournament and
// participants may be nil; open slots render as null participants.
func NewMatchPayload(m *models.Match, tournament *models.Tournament, p1, p2 *models.Participant) MatchPayload {
	payload := MatchPayload{
		MatchID:      m.ID,
		TournamentID: m.TournamentID,
		Round:        m.Round,
		Sport:        string(m.Config.Sport),
		Source:       string(m.Source),
		Version:      m.Version,
		Status:       string(m.Status),
		LegacyStatus: string(m.Status),
		Participant1: newParticipantPayload(p1),
		Participant2: newParticipantPayload(p2),
	}
	if m.Court != nil {
		payload.Court = *m.Court
	}
	if tournament != nil {
		payload.TournamentName = tournament.Name
		payload.LegacyTournament = tournament.Name
	}
	if m.State != nil {
		payload.Score = newScorePayload(m.Config, *m.State)
		payload.State = newStatePayload(*m.State)
		payload.ScoreStatus = scoring.StatusLine(m.Config, *m.State,
			participantName(p1, "Player 1"), participantName(p2, "Player 2"))
	}
	return payload
}

func newParticipantPayload(p *models.Participant) *ParticipantPayload {
	if p == nil {
		return nil
	}
	out := &ParticipantPayload{
		ID:          p.ID,
		DisplayName: p.DisplayName,
	}
	if p.PlayerName != nil {
		out.PlayerName = *p.PlayerName
	}
	if p.Player2Name != nil {
		out.Player2Name = *p.Player2Name
	}
	if p.Country != nil {
		out.Country = *p.Country
	}
	if p.Seed != nil {
		out.Seed = *p.Seed
	}
	return out
}

func participantName(p *models.Participant, fallback string) string {
	if p == nil || p.DisplayName == "" {
		return fallback
	}
	return p.DisplayName
}

func newScorePayload(cfg models.MatchConfig, state models.MatchState) *ScorePayload {
	s := &ScorePayload{
		Player1Sets:   state.SetsWon(models.SideA),
		Player2Sets:   state.SetsWon(models.SideB),
		Player1Games:  state.CurrentSetGames.Get(models.SideA),
		Player2Games:  state.CurrentSetGames.Get(models.SideB),
		Player1Points: scoring.PointLabel(cfg, state, models.SideA),
		Player2Points: scoring.PointLabel(cfg, state, models.SideB),
	}
	s.LegacyPlayer1Sets = s.Player1Sets
	s.LegacyPlayer2Sets = s.Player2Sets
	s.LegacyPlayer1Games = s.Player1Games
	s.LegacyPlayer2Games = s.Player2Games
	s.LegacyPlayer1Points = s.Player1Points
	s.LegacyPlayer2Points = s.Player2Points
	return s
}

func newStatePayload(state models.MatchState) *StatePayload {
	p := &StatePayload{
		Sets:               state.Sets,
		CurrentSetGames:    state.CurrentSetGames,
		CurrentGamePoints:  state.CurrentGamePoints,
		CurrentSetPoints:   state.CurrentSetPoints,
		IsTiebreak:         state.IsTiebreak,
		TiebreakPoints:     state.TiebreakPoints,
		CurrentSetNumber:   state.CurrentSetNumber,
		ServingSide:        state.ServingSide,
		FirstServerOfSet:   state.FirstServerOfSet,
		IsMatchComplete:    state.IsMatchComplete,
		ServingParticipant: state.ServingSide.ParticipantNumber(),
	}
	if p.Sets == nil {
		p.Sets = []models.Pair{}
	}
	p.LegacyCurrentSetGames = p.CurrentSetGames
	p.LegacyCurrentGamePoints = p.CurrentGamePoints
	p.LegacyCurrentSetPoints = p.CurrentSetPoints
	p.LegacyTiebreakPoints = p.TiebreakPoints
	p.LegacyCurrentSet = p.CurrentSetNumber
	p.LegacyIsTiebreak = p.IsTiebreak
	p.LegacyIsMatchComplete = p.IsMatchComplete
	return p
}
