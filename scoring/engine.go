package scoring

import (
	"errors"
	"fmt"

	"github.com/courtsidehq/courtside/models"
)

// The lifecycle layer maps these onto its own sentinel set for HTTP;
// inside this package they are the only two failure kinds.
var (
	ErrInvalidTransition    = errors.New("invalid scoring transition")
	ErrInvalidConfiguration = errors.New("invalid match configuration")
)

// Engine turns one "point won" event into the next match state. Apply is a
// pure transformation: it never mutates its inputs and has no side
// effects, which is what makes snapshot-based undo exact.
type Engine interface {
	Apply(cfg models.MatchConfig, state models.MatchState, winner models.Side) (models.MatchState, error)

	Name() string
}

// ForSport selects the rule set for a configured sport.
func ForSport(sport models.Sport) (Engine, error) {
	switch sport {
	case models.SportTennis:
		return NewTennisEngine(), nil
	case models.SportVolleyball:
		return NewVolleyballEngine(), nil
	case models.SportGeneric:
		return NewGenericEngine(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported sport %q", ErrInvalidConfiguration, sport)
	}
}

// Apply routes a point to the engine of the configured sport.
func Apply(cfg models.MatchConfig, state models.MatchState, winner models.Side) (models.MatchState, error) {
	engine, err := ForSport(cfg.Sport)
	if err != nil {
		return state, err
	}
	return engine.Apply(cfg, state, winner)
}

// ValidateConfig checks a (normalized) MatchConfig for the configured
// sport. Stored configs are normalized at creation, so a failure here on a
// live match means the row was tampered with or predates a rule change.
func ValidateConfig(cfg models.MatchConfig) error {
	switch cfg.Sport {
	case models.SportTennis:
		if cfg.SetsToWin <= 0 {
			return fmt.Errorf("%w: sets_to_win must be positive, got %d", ErrInvalidConfiguration, cfg.SetsToWin)
		}
		if cfg.TiebreakTriggerGames < 1 {
			return fmt.Errorf("%w: tiebreak_trigger_games must be at least 1, got %d", ErrInvalidConfiguration, cfg.TiebreakTriggerGames)
		}
		if cfg.TiebreakTargetPoints < 1 {
			return fmt.Errorf("%w: tiebreak_target_points must be at least 1, got %d", ErrInvalidConfiguration, cfg.TiebreakTargetPoints)
		}
		switch cfg.FinalSetMode {
		case models.FinalSetTiebreak, models.FinalSetAdvantage:
		case models.FinalSetMatchTiebreak:
			if cfg.MatchTiebreakTargetPoints < 1 {
				return fmt.Errorf("%w: match_tiebreak_target_points must be at least 1, got %d", ErrInvalidConfiguration, cfg.MatchTiebreakTargetPoints)
			}
		default:
			return fmt.Errorf("%w: unknown final_set_mode %q", ErrInvalidConfiguration, cfg.FinalSetMode)
		}
	case models.SportVolleyball:
		if cfg.SetsToWin <= 0 {
			return fmt.Errorf("%w: sets_to_win must be positive, got %d", ErrInvalidConfiguration, cfg.SetsToWin)
		}
		if cfg.PointsPerSet < 1 {
			return fmt.Errorf("%w: points_per_set must be at least 1, got %d", ErrInvalidConfiguration, cfg.PointsPerSet)
		}
		if cfg.PointsPerDecidingSet < 1 {
			return fmt.Errorf("%w: points_per_deciding_set must be at least 1, got %d", ErrInvalidConfiguration, cfg.PointsPerDecidingSet)
		}
		if cfg.MinLeadToWin < 1 {
			return fmt.Errorf("%w: min_lead_to_win must be at least 1, got %d", ErrInvalidConfiguration, cfg.MinLeadToWin)
		}
	case models.SportGeneric:
		// No rule parameters; the engine only counts.
	default:
		return fmt.Errorf("%w: unsupported sport %q", ErrInvalidConfiguration, cfg.Sport)
	}
	return nil
}

func checkApply(cfg models.MatchConfig, state models.MatchState, winner models.Side) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	if !winner.Valid() {
		return fmt.Errorf("%w: unrecognized side %d", ErrInvalidTransition, int(winner))
	}
	if state.IsMatchComplete {
		return fmt.Errorf("%w: match is already complete", ErrInvalidTransition)
	}
	return nil
}
