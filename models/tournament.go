package models

import "time"

// TournamentStatus mirrors the ENUM in the database.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// Tournament is the slim owning record a match belongs to. Registration,
// seeding and organizer management live in other systems; scoring only
// needs to know whether play is allowed (StatusActive) and what to call
// the event on displays.
type Tournament struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Status    TournamentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
