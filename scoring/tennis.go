package scoring

import (
	"github.com/courtsidehq/courtside/models"
)

type tennisEngine struct{}

func NewTennisEngine() Engine {
	return tennisEngine{}
}

func (tennisEngine) Name() string {
	return "tennis"
}

func (tennisEngine) Apply(cfg models.MatchConfig, state models.MatchState, winner models.Side) (models.MatchState, error) {
	if err := checkApply(cfg, state, winner); err != nil {
		return state, err
	}

	next := state.Clone()
	if next.IsTiebreak {
		applyTiebreakPoint(cfg, &next, winner)
	} else {
		applyGamePoint(cfg, &next, winner)
	}
	return next, nil
}

func applyGamePoint(cfg models.MatchConfig, st *models.MatchState, winner models.Side) {
	st.CurrentGamePoints = st.CurrentGamePoints.Incr(winner)
	if !gameWon(cfg, st.CurrentGamePoints, winner) {
		return
	}

	// Game closes: points zero out and the serve hands over.
	st.CurrentGamePoints = models.Pair{}
	st.CurrentSetGames = st.CurrentSetGames.Incr(winner)
	st.ServingSide = st.ServingSide.Other()

	games := st.CurrentSetGames
	trigger := cfg.TiebreakTriggerGames
	switch {
	case games.Get(winner) >= trigger && games.Lead(winner) >= 2:
		closeSet(cfg, st, winner, games)
	case games.Get(models.SideA) == trigger && games.Get(models.SideB) == trigger && !advantageFinalSet(cfg, st):
		st.IsTiebreak = true
		st.TiebreakPoints = models.Pair{}
	}
}

// gameWon: without ad scoring the first side to a fourth point takes the
// game outright; with ad scoring a fourth point only wins on a two-point
// lead, otherwise play continues through deuce and advantage.
func gameWon(cfg models.MatchConfig, pts models.Pair, winner models.Side) bool {
	if pts.Get(winner) < 4 {
		return false
	}
	if !cfg.AdScoring {
		return true
	}
	return pts.Lead(winner) >= 2
}

func applyTiebreakPoint(cfg models.MatchConfig, st *models.MatchState, winner models.Side) {
	st.TiebreakPoints = st.TiebreakPoints.Incr(winner)

	// One point from the opening server, then two serves each: the serve
	// hands over after every odd-numbered tiebreak point.
	if st.TiebreakPoints.Sum()%2 == 1 {
		st.ServingSide = st.ServingSide.Other()
	}

	matchTiebreak := InMatchTiebreak(cfg, *st)
	target := cfg.TiebreakTargetPoints
	if matchTiebreak {
		target = cfg.MatchTiebreakTargetPoints
	}

	pts := st.TiebreakPoints
	if pts.Get(winner) < target || pts.Lead(winner) < 2 {
		return
	}

	if matchTiebreak {
		// The whole deciding set was the tiebreak; record it 1-0.
		final := models.Pair{}
		final[winner] = 1
		closeSet(cfg, st, winner, final)
		return
	}

	// The set stood at the trigger pair; the tiebreak winner records the
	// extra game, e.g. 7-6.
	final := st.CurrentSetGames.Incr(winner)
	closeSet(cfg, st, winner, final)
}

func closeSet(cfg models.MatchConfig, st *models.MatchState, winner models.Side, finalGames models.Pair) {
	st.Sets = append(st.Sets, finalGames)
	st.CurrentSetGames = models.Pair{}
	st.CurrentGamePoints = models.Pair{}
	st.IsTiebreak = false
	st.TiebreakPoints = models.Pair{}

	if st.SetsWon(winner) == cfg.SetsToWin {
		st.IsMatchComplete = true
		return
	}

	st.CurrentSetNumber = len(st.Sets) + 1
	st.FirstServerOfSet = st.FirstServerOfSet.Other()
	st.ServingSide = st.FirstServerOfSet

	if cfg.FinalSetMode == models.FinalSetMatchTiebreak && len(st.Sets) == cfg.DecidingSetIndex() {
		st.IsTiebreak = true
	}
}

// advantageFinalSet reports whether the set in progress is a deciding set
// played to a two-game margin instead of a tiebreak.
func advantageFinalSet(cfg models.MatchConfig, st *models.MatchState) bool {
	return cfg.FinalSetMode == models.FinalSetAdvantage && len(st.Sets) == cfg.DecidingSetIndex()
}

// InMatchTiebreak reports whether an active tiebreak is the standalone
// deciding-set tiebreak rather than one closing a tied set.
func InMatchTiebreak(cfg models.MatchConfig, state models.MatchState) bool {
	return state.IsTiebreak &&
		cfg.FinalSetMode == models.FinalSetMatchTiebreak &&
		len(state.Sets) == cfg.DecidingSetIndex()
}

// ServerForTiebreakPoint gives the serving side of the zero-indexed
// tiebreak point when opener served point zero. Apply keeps ServingSide in
// step with this pattern; the closed form exists for derived displays.
func ServerForTiebreakPoint(opener models.Side, point int) models.Side {
	if point == 0 {
		return opener
	}
	if ((point+1)/2)%2 == 0 {
		return opener
	}
	return opener.Other()
}
