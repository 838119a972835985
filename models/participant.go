package models

import "time"

// Participant is one side of a match as displays show it. DisplayName is
// the bracket entry ("Garcia / Silva" for a doubles pair); PlayerName and
// Player2Name carry the individual names when the entry is a pair, so
// overlays can render each player separately.
type Participant struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	DisplayName  string    `json:"display_name"`
	PlayerName   *string   `json:"player_name,omitempty"`
	Player2Name  *string   `json:"player2_name,omitempty"`
	Country      *string   `json:"country,omitempty"`
	Seed         *int      `json:"seed,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
