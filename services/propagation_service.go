package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtsidehq/courtside/brackets"
	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/repositories"
)

// Propagator routes a completed match's outcome into downstream bracket
// slots, and can take the routing back while the downstream matches are
// still untouched. Both directions run inside the caller's transaction,
// so a completion (or an undo) and its bracket effects commit atomically.
type Propagator interface {
	Propagate(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, winnerParticipantID int) error
	Rollback(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error
}

type propagationService struct {
	matchRepo repositories.MatchRepository
}

func NewPropagationService(matchRepo repositories.MatchRepository) Propagator {
	return &propagationService{matchRepo: matchRepo}
}

// Propagate advances the winner (and, in double elimination, drops the
// loser). PropagatedAt makes it idempotent: a second call is a no-op, and
// finding our own earlier write in a slot counts as success.
func (s *propagationService) Propagate(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, winnerParticipantID int) error {
	if match.PropagatedAt != nil {
		return nil
	}

	if route, ok := brackets.RouteForWinner(match); ok {
		if err := s.assign(ctx, exec, route, winnerParticipantID); err != nil {
			return err
		}
	}
	if route, ok := brackets.RouteForLoser(match); ok {
		if loserID, ok := loserParticipantID(match, winnerParticipantID); ok {
			if err := s.assign(ctx, exec, route, loserID); err != nil {
				return err
			}
		}
	}

	now := time.Now().UTC()
	if err := s.matchRepo.SetPropagatedAt(ctx, exec, match.ID, &now); err != nil {
		return mapRepositoryError(err)
	}
	match.PropagatedAt = &now
	return nil
}

// Rollback removes the routed participants again. It refuses with
// ErrDownstreamStarted unless every downstream match is still scheduled
// with no live state; a reopened match must never diverge silently from a
// bracket that already moved on.
func (s *propagationService) Rollback(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if match.PropagatedAt == nil {
		return nil
	}

	if route, ok := brackets.RouteForWinner(match); ok {
		if match.WinnerParticipantID == nil {
			return fmt.Errorf("match %d is propagated but has no winner", match.ID)
		}
		if err := s.clear(ctx, exec, route, *match.WinnerParticipantID); err != nil {
			return err
		}
	}
	if route, ok := brackets.RouteForLoser(match); ok {
		if match.WinnerParticipantID != nil {
			if loserID, ok := loserParticipantID(match, *match.WinnerParticipantID); ok {
				if err := s.clear(ctx, exec, route, loserID); err != nil {
					return err
				}
			}
		}
	}

	if err := s.matchRepo.SetPropagatedAt(ctx, exec, match.ID, nil); err != nil {
		return mapRepositoryError(err)
	}
	match.PropagatedAt = nil
	return nil
}

func (s *propagationService) assign(ctx context.Context, exec repositories.SQLExecutor, route brackets.Route, participantID int) error {
	err := s.matchRepo.AssignParticipantToSlot(ctx, exec, route.MatchID, route.Slot, participantID)
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrMatchSlotOccupied) {
		target, getErr := s.matchRepo.GetByID(ctx, exec, route.MatchID)
		if getErr != nil {
			return mapRepositoryError(getErr)
		}
		if occupant := slotOccupant(target, route.Slot); occupant != nil && *occupant == participantID {
			return nil
		}
		return fmt.Errorf("slot %d of match %d already holds another participant", route.Slot, route.MatchID)
	}
	return mapRepositoryError(err)
}

func (s *propagationService) clear(ctx context.Context, exec repositories.SQLExecutor, route brackets.Route, participantID int) error {
	target, err := s.matchRepo.GetByID(ctx, exec, route.MatchID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if target.Status != models.MatchStatusScheduled || target.State != nil {
		return fmt.Errorf("%w: match %d is %s", ErrDownstreamStarted, target.ID, target.Status)
	}

	err = s.matchRepo.ClearSlot(ctx, exec, route.MatchID, route.Slot, participantID)
	if errors.Is(err, repositories.ErrMatchSlotMismatch) {
		return fmt.Errorf("%w: slot %d of match %d was reassigned", ErrDownstreamStarted, route.Slot, route.MatchID)
	}
	return mapRepositoryError(err)
}

func loserParticipantID(m *models.Match, winnerParticipantID int) (int, bool) {
	if m.P1ParticipantID != nil && *m.P1ParticipantID != winnerParticipantID {
		return *m.P1ParticipantID, true
	}
	if m.P2ParticipantID != nil && *m.P2ParticipantID != winnerParticipantID {
		return *m.P2ParticipantID, true
	}
	return 0, false
}

func slotOccupant(m *models.Match, slot int) *int {
	if slot == 1 {
		return m.P1ParticipantID
	}
	return m.P2ParticipantID
}
