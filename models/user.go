package models

// UserRole mirrors the role claim minted by the platform's identity
// service. Accounts live elsewhere; scoring only needs to know which
// roles may operate a scoring desk.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RoleScorer    UserRole = "scorer"
	RoleViewer    UserRole = "viewer"
)

// CanScore reports whether the role may start, score, undo, complete or
// feed matches.
func (r UserRole) CanScore() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleScorer:
		return true
	default:
		return false
	}
}
