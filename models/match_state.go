package models

// MatchState is the canonical live-score document for one match. It is the
// single representation the engine, the history stack, and the persistence
// layer agree on; legacy field spellings used by older overlay clients are
// produced only at the transport boundary (see the livedata package).
//
// Tennis uses Sets/CurrentSetGames/CurrentGamePoints plus the tiebreak
// fields; volleyball and rule-less sports use CurrentSetPoints. Unused
// fields stay at their zero values so every snapshot has the same shape.
type MatchState struct {
	// Completed sets in chronological order. Tennis entries are game
	// pairs (6-4); volleyball entries are point pairs (25-23).
	Sets []Pair `json:"sets"`

	CurrentSetGames   Pair `json:"current_set_games"`
	CurrentGamePoints Pair `json:"current_game_points"`

	IsTiebreak     bool `json:"is_tiebreak"`
	TiebreakPoints Pair `json:"tiebreak_points"`

	CurrentSetPoints Pair `json:"current_set_points"`
	CurrentSetNumber int  `json:"current_set_number"`

	ServingSide      Side `json:"serving_side"`
	FirstServerOfSet Side `json:"first_server_of_set"`

	IsMatchComplete bool `json:"is_match_complete"`
}

// NewMatchState returns the empty state a match starts from once a first
// server has been chosen.
func NewMatchState(firstServer Side) MatchState {
	return MatchState{
		Sets:             []Pair{},
		CurrentSetNumber: 1,
		ServingSide:      firstServer,
		FirstServerOfSet: firstServer,
	}
}

// SetsWon counts completed sets in which the side holds the higher score.
func (s MatchState) SetsWon(side Side) int {
	won := 0
	for _, set := range s.Sets {
		if set[side] > set[side.Other()] {
			won++
		}
	}
	return won
}

// Clone returns a deep copy. MatchState contains one slice, so the copy is
// cheap but must not share the Sets backing array with the original.
func (s MatchState) Clone() MatchState {
	out := s
	out.Sets = make([]Pair, len(s.Sets))
	copy(out.Sets, s.Sets)
	return out
}

// Equal reports full structural equality.
func (s MatchState) Equal(other MatchState) bool {
	if len(s.Sets) != len(other.Sets) {
		return false
	}
	for i := range s.Sets {
		if s.Sets[i] != other.Sets[i] {
			return false
		}
	}
	return s.CurrentSetGames == other.CurrentSetGames &&
		s.CurrentGamePoints == other.CurrentGamePoints &&
		s.IsTiebreak == other.IsTiebreak &&
		s.TiebreakPoints == other.TiebreakPoints &&
		s.CurrentSetPoints == other.CurrentSetPoints &&
		s.CurrentSetNumber == other.CurrentSetNumber &&
		s.ServingSide == other.ServingSide &&
		s.FirstServerOfSet == other.FirstServerOfSet &&
		s.IsMatchComplete == other.IsMatchComplete
}
