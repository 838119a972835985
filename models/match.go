package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusBye       MatchStatus = "bye"
	MatchStatusCanceled  MatchStatus = "canceled"
)

// MatchSource distinguishes matches scored by our engine from matches
// whose state arrives as snapshots from an external scoreboard feed.
type MatchSource string

const (
	SourceEngine   MatchSource = "engine"
	SourceExternal MatchSource = "external"
)

type BracketType string

const (
	BracketSingleElimination BracketType = "single_elimination"
	BracketDoubleElimination BracketType = "double_elimination"
)

// Match is one bracket node. Config is immutable after creation; State and
// Version only ever change together through a versioned update, which is
// what serializes concurrent scorer writes.
type Match struct {
	ID           int         `json:"id"`
	TournamentID int         `json:"tournament_id"`
	BracketType  BracketType `json:"bracket_type"`
	Round        int         `json:"round"`

	P1ParticipantID *int `json:"p1_participant_id,omitempty"`
	P2ParticipantID *int `json:"p2_participant_id,omitempty"`

	Source MatchSource `json:"source"`
	Status MatchStatus `json:"status"`
	Court  *string     `json:"court,omitempty"`

	Config  MatchConfig `json:"config"`
	State   *MatchState `json:"state,omitempty"`
	Version int         `json:"version"`

	WinnerParticipantID *int `json:"winner_participant_id,omitempty"`

	// Bracket linkage, set when the topology is created. The loser route
	// is only present in double elimination.
	NextMatchDBID      *int `json:"next_match_db_id,omitempty"`
	WinnerToSlot       *int `json:"winner_to_slot,omitempty"`
	LoserNextMatchDBID *int `json:"loser_next_match_db_id,omitempty"`
	LoserToSlot        *int `json:"loser_to_slot,omitempty"`

	// PropagatedAt marks that the completion handoff already wrote this
	// match's winner (and loser, if routed) downstream.
	PropagatedAt *time.Time `json:"propagated_at,omitempty"`

	// ArchiveKey is the object storage key of the exported score document,
	// set once the post-completion export has run.
	ArchiveKey *string `json:"archive_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParticipantIDForSide returns the participant occupying the given side's
// slot, nil when the slot is still open.
func (m *Match) ParticipantIDForSide(s Side) *int {
	if s == SideA {
		return m.P1ParticipantID
	}
	return m.P2ParticipantID
}

// FilledSlots counts assigned participant slots.
func (m *Match) FilledSlots() int {
	n := 0
	if m.P1ParticipantID != nil {
		n++
	}
	if m.P2ParticipantID != nil {
		n++
	}
	return n
}

// SoleParticipant returns the only assigned participant of a one-sided
// match, which is what a bye resolves to.
func (m *Match) SoleParticipant() (int, bool) {
	if m.P1ParticipantID != nil && m.P2ParticipantID == nil {
		return *m.P1ParticipantID, true
	}
	if m.P2ParticipantID != nil && m.P1ParticipantID == nil {
		return *m.P2ParticipantID, true
	}
	return 0, false
}
