package scoring

import (
	"github.com/courtsidehq/courtside/models"
)

type volleyballEngine struct{}

func NewVolleyballEngine() Engine {
	return volleyballEngine{}
}

func (volleyballEngine) Name() string {
	return "volleyball"
}

// Rally scoring: every rally scores a point and the winner of the rally
// serves next. No deuce structure; a set closes at the target score with
// the configured lead.
func (volleyballEngine) Apply(cfg models.MatchConfig, state models.MatchState, winner models.Side) (models.MatchState, error) {
	if err := checkApply(cfg, state, winner); err != nil {
		return state, err
	}

	next := state.Clone()
	next.CurrentSetPoints = next.CurrentSetPoints.Incr(winner)
	next.ServingSide = winner

	target := cfg.PointsPerSet
	if len(next.Sets) == cfg.DecidingSetIndex() {
		target = cfg.PointsPerDecidingSet
	}

	pts := next.CurrentSetPoints
	if pts.Get(winner) < target || pts.Lead(winner) < cfg.MinLeadToWin {
		return next, nil
	}

	next.Sets = append(next.Sets, pts)
	next.CurrentSetPoints = models.Pair{}
	if next.SetsWon(winner) == cfg.SetsToWin {
		next.IsMatchComplete = true
		return next, nil
	}

	next.CurrentSetNumber = len(next.Sets) + 1
	next.FirstServerOfSet = next.FirstServerOfSet.Other()
	next.ServingSide = next.FirstServerOfSet
	return next, nil
}
