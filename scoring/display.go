package scoring

import (
	"fmt"
	"strconv"

	"github.com/courtsidehq/courtside/models"
)

// Derived display fields. Everything here is a pure function of config and
// state; scoreboards and overlays render these strings verbatim.

var gamePointLabels = [4]string{"0", "15", "30", "40"}

// PointLabel renders one side's in-progress score. Tennis games use the
// 0/15/30/40/AD ladder; tiebreaks and rally-scored sports print the bare
// count.
func PointLabel(cfg models.MatchConfig, state models.MatchState, side models.Side) string {
	switch cfg.Sport {
	case models.SportVolleyball, models.SportGeneric:
		return strconv.Itoa(state.CurrentSetPoints.Get(side))
	}

	if state.IsTiebreak {
		return strconv.Itoa(state.TiebreakPoints.Get(side))
	}

	pts := state.CurrentGamePoints
	mine, theirs := pts.Get(side), pts.Get(side.Other())
	if mine >= 3 && theirs >= 3 {
		if mine > theirs {
			return "AD"
		}
		return "40"
	}
	if mine >= 4 {
		// Unreachable through the engine, but imported snapshots may
		// carry a lone runaway count.
		return "AD"
	}
	return gamePointLabels[mine]
}

// StatusLine is the one-line situation banner shown between the names:
// "Deuce", "Advantage Garcia", "Tiebreak", "Match Tiebreak", or the no-ad
// deciding-point callout. Empty when nothing special is happening.
func StatusLine(cfg models.MatchConfig, state models.MatchState, nameA, nameB string) string {
	if cfg.Sport != models.SportTennis || state.IsMatchComplete {
		return ""
	}

	if state.IsTiebreak {
		if InMatchTiebreak(cfg, state) {
			return "Match Tiebreak"
		}
		return "Tiebreak"
	}

	pts := state.CurrentGamePoints
	a, b := pts.Get(models.SideA), pts.Get(models.SideB)
	if a < 3 || b < 3 {
		return ""
	}
	if a == b {
		if !cfg.AdScoring {
			// Sudden-death point; the receiver picks the return side.
			return fmt.Sprintf("Deciding Point (%s chooses side)", sideName(state.ServingSide.Other(), nameA, nameB))
		}
		return "Deuce"
	}
	leader := models.SideA
	if b > a {
		leader = models.SideB
	}
	return fmt.Sprintf("Advantage %s", sideName(leader, nameA, nameB))
}

func sideName(s models.Side, nameA, nameB string) string {
	if s == models.SideA {
		return nameA
	}
	return nameB
}
