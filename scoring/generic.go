package scoring

import (
	"github.com/courtsidehq/courtside/models"
)

// genericEngine covers sports we have no rules for. Points accumulate in
// CurrentSetPoints and nothing else ever changes; the match is completed
// manually by the lifecycle layer, which also rejects tied scores there.
type genericEngine struct{}

func NewGenericEngine() Engine {
	return genericEngine{}
}

func (genericEngine) Name() string {
	return "generic"
}

func (genericEngine) Apply(cfg models.MatchConfig, state models.MatchState, winner models.Side) (models.MatchState, error) {
	if err := checkApply(cfg, state, winner); err != nil {
		return state, err
	}

	next := state.Clone()
	next.CurrentSetPoints = next.CurrentSetPoints.Incr(winner)
	return next, nil
}
