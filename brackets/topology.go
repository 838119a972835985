package brackets

import (
	"fmt"

	"github.com/courtsidehq/courtside/models"
)

// Route is a downstream slot a finished match feeds, expressed as the
// target match row and the participant slot (1 or 2) to occupy there.
type Route struct {
	MatchID int
	Slot    int
}

// RouteForWinner returns where the winner advances. A final has no route.
func RouteForWinner(m *models.Match) (Route, bool) {
	if m.NextMatchDBID == nil || m.WinnerToSlot == nil {
		return Route{}, false
	}
	return Route{MatchID: *m.NextMatchDBID, Slot: *m.WinnerToSlot}, true
}

// RouteForLoser returns the loser's drop into the lower bracket. Only
// double elimination routes losers anywhere.
func RouteForLoser(m *models.Match) (Route, bool) {
	if m.BracketType != models.BracketDoubleElimination {
		return Route{}, false
	}
	if m.LoserNextMatchDBID == nil || m.LoserToSlot == nil {
		return Route{}, false
	}
	return Route{MatchID: *m.LoserNextMatchDBID, Slot: *m.LoserToSlot}, true
}

// ValidateLinkage checks a match's bracket wiring at creation time: slots
// must be 1 or 2, routes must not point at the match itself, and loser
// routes are a double-elimination feature.
func ValidateLinkage(m *models.Match) error {
	if (m.NextMatchDBID == nil) != (m.WinnerToSlot == nil) {
		return fmt.Errorf("winner route needs both next match and slot")
	}
	if (m.LoserNextMatchDBID == nil) != (m.LoserToSlot == nil) {
		return fmt.Errorf("loser route needs both next match and slot")
	}
	if m.WinnerToSlot != nil && *m.WinnerToSlot != 1 && *m.WinnerToSlot != 2 {
		return fmt.Errorf("winner slot must be 1 or 2, got %d", *m.WinnerToSlot)
	}
	if m.LoserToSlot != nil && *m.LoserToSlot != 1 && *m.LoserToSlot != 2 {
		return fmt.Errorf("loser slot must be 1 or 2, got %d", *m.LoserToSlot)
	}
	if m.NextMatchDBID != nil && *m.NextMatchDBID == m.ID && m.ID != 0 {
		return fmt.Errorf("match cannot advance its winner into itself")
	}
	if m.LoserNextMatchDBID != nil && m.BracketType != models.BracketDoubleElimination {
		return fmt.Errorf("loser route on a %s bracket", m.BracketType)
	}
	return nil
}
