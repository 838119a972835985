package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/courtsidehq/courtside/brackets"
	"github.com/courtsidehq/courtside/livedata"
	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/repositories"
	"github.com/courtsidehq/courtside/scoring"
)

const (
	msgMatchUpdated   = "MATCH_UPDATED"
	msgBracketUpdated = "BRACKET_UPDATED"
)

// Actor is the caller identity resolved by the platform's auth layer. The
// scoring subsystem does not interpret roles; it trusts CanScore as
// computed upstream.
type Actor struct {
	UserID   int
	CanScore bool
}

// LiveBroadcaster fans a committed update out to one room of connected
// viewers. *brackets.Hub satisfies it.
type LiveBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// Archiver exports a completed match's final score document without
// blocking the caller.
type Archiver interface {
	ExportAsync(match *models.Match, payload livedata.MatchPayload)
}

// LiveMatch is the read model served to scorers and viewers: the display
// payload plus how many point transitions can currently be undone.
type LiveMatch struct {
	livedata.MatchPayload
	UndoDepth int `json:"undo_depth"`
}

type MatchService interface {
	Create(ctx context.Context, match *models.Match) (*models.Match, error)
	Start(ctx context.Context, matchID int, firstServer models.Side, actor Actor) (*LiveMatch, error)
	ApplyPoint(ctx context.Context, matchID int, side models.Side, actor Actor) (*LiveMatch, error)
	Undo(ctx context.Context, matchID int, actor Actor) (*LiveMatch, error)
	Complete(ctx context.Context, matchID int, actor Actor) (*LiveMatch, error)
	ResolveBye(ctx context.Context, matchID int) (*LiveMatch, error)
	Cancel(ctx context.Context, matchID int, actor Actor) (*LiveMatch, error)
	ImportSnapshot(ctx context.Context, matchID int, doc []byte, actor Actor) (*LiveMatch, error)
	GetLiveMatch(ctx context.Context, matchID int) (*LiveMatch, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]LiveMatch, error)
}

type matchService struct {
	txRunner        repositories.TxRunner
	matchRepo       repositories.MatchRepository
	historyRepo     repositories.HistoryRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	propagator      Propagator
	hub             LiveBroadcaster
	archiver        Archiver
	logger          *slog.Logger
}

func NewMatchService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	historyRepo repositories.HistoryRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	propagator Propagator,
	hub LiveBroadcaster,
	archiver Archiver,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		txRunner:        txRunner,
		matchRepo:       matchRepo,
		historyRepo:     historyRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		propagator:      propagator,
		hub:             hub,
		archiver:        archiver,
		logger:          logger,
	}
}

// Create registers a scheduled match. The config is normalized and
// validated here so every later read can trust it; state stays empty until
// the match starts.
func (s *matchService) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	if match.TournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrValidationFailed)
	}
	if match.Round < 1 {
		return nil, fmt.Errorf("%w: round must be at least 1", ErrValidationFailed)
	}
	switch match.Source {
	case models.SourceEngine, models.SourceExternal:
	default:
		return nil, fmt.Errorf("%w: unknown match source %q", ErrValidationFailed, match.Source)
	}
	switch match.BracketType {
	case models.BracketSingleElimination, models.BracketDoubleElimination:
	default:
		return nil, fmt.Errorf("%w: unknown bracket type %q", ErrValidationFailed, match.BracketType)
	}
	if match.P1ParticipantID != nil && match.P2ParticipantID != nil && *match.P1ParticipantID == *match.P2ParticipantID {
		return nil, fmt.Errorf("%w: a participant cannot occupy both slots", ErrValidationFailed)
	}
	if err := brackets.ValidateLinkage(match); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	cfg := match.Config.Normalized()
	if err := scoring.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	match.Config = cfg
	match.Status = models.MatchStatusScheduled
	match.State = nil
	match.Version = 0
	match.WinnerParticipantID = nil
	match.PropagatedAt = nil

	if _, err := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, mapRepositoryError(err)
	}
	return match, nil
}

// Start moves a scheduled engine-scored match to live with a zero state.
// It is the only transition that needs a first-server choice; everything
// afterwards derives the serve from the rules.
func (s *matchService) Start(ctx context.Context, matchID int, firstServer models.Side, actor Actor) (*LiveMatch, error) {
	if !actor.CanScore {
		return nil, ErrScoreForbidden
	}
	if !firstServer.Valid() {
		return nil, fmt.Errorf("%w: unknown first server", ErrValidationFailed)
	}

	var updated *models.Match
	err := s.txRunner.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Source != models.SourceEngine {
			return ErrEngineSourceOnly
		}
		if m.Status != models.MatchStatusScheduled {
			return fmt.Errorf("%w: cannot start a %s match", ErrInvalidTransition, m.Status)
		}
		if m.FilledSlots() != 2 {
			return ErrSlotsNotFilled
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, exec, m.TournamentID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if tournament.Status != models.StatusActive {
			return ErrTournamentNotActive
		}

		state := models.NewMatchState(firstServer)
		if err := s.matchRepo.UpdateStateVersioned(ctx, exec, m.ID, &state, m.Version, models.MatchStatusLive, nil); err != nil {
			return mapRepositoryError(err)
		}

		m.State = &state
		m.Status = models.MatchStatusLive
		m.Version++
		updated = m
		return nil
	})
	if err != nil {
		return nil, noteConflict(err)
	}
	return s.announce(ctx, updated, false), nil
}

// ApplyPoint runs one point through the engine and commits the result
// behind the version gate. The pre-transition state is pushed to history
// in the same transaction, keyed by the version it was read at, so a
// committed point and its undo record can never drift apart.
func (s *matchService) ApplyPoint(ctx context.Context, matchID int, side models.Side, actor Actor) (*LiveMatch, error) {
	if !actor.CanScore {
		return nil, ErrScoreForbidden
	}
	if !side.Valid() {
		return nil, fmt.Errorf("%w: unknown side", ErrValidationFailed)
	}

	var (
		updated   *models.Match
		completed bool
	)
	err := s.txRunner.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Source != models.SourceEngine {
			return ErrEngineSourceOnly
		}
		if m.Status != models.MatchStatusLive || m.State == nil {
			return fmt.Errorf("%w: match is %s", ErrMatchNotScoreable, m.Status)
		}

		next, err := scoring.Apply(m.Config, *m.State, side)
		if err != nil {
			pointsApplied.WithLabelValues(string(m.Config.Sport), resultRejected).Inc()
			return mapEngineError(err)
		}

		if err := s.historyRepo.Push(ctx, exec, m.ID, m.Version, m.State); err != nil {
			return mapRepositoryError(err)
		}

		status := models.MatchStatusLive
		var winnerID *int
		if next.IsMatchComplete {
			winnerSide, ok := engineWinnerSide(m.Config, next)
			if !ok {
				return fmt.Errorf("match %d completed without a winning side", m.ID)
			}
			winnerID = m.ParticipantIDForSide(winnerSide)
			if winnerID == nil {
				return fmt.Errorf("match %d completed but the winning slot is empty", m.ID)
			}
			status = models.MatchStatusCompleted
		}

		if err := s.matchRepo.UpdateStateVersioned(ctx, exec, m.ID, &next, m.Version, status, winnerID); err != nil {
			return mapRepositoryError(err)
		}
		if next.IsMatchComplete {
			if err := s.propagator.Propagate(ctx, exec, m, *winnerID); err != nil {
				return err
			}
		}

		m.State = &next
		m.Status = status
		m.WinnerParticipantID = winnerID
		m.Version++
		updated = m
		completed = next.IsMatchComplete
		return nil
	})
	if err != nil {
		return nil, noteConflict(err)
	}

	pointsApplied.WithLabelValues(string(updated.Config.Sport), resultOK).Inc()
	live := s.announce(ctx, updated, completed)
	if completed && s.archiver != nil {
		s.archiver.ExportAsync(updated, live.MatchPayload)
	}
	return live, nil
}

// Undo pops the latest history entry and writes it back as the current
// state. Undoing the completing point also reopens the match; if its
// outcome was already routed downstream, the routing is rolled back in the
// same transaction, or the whole undo is refused.
func (s *matchService) Undo(ctx context.Context, matchID int, actor Actor) (*LiveMatch, error) {
	if !actor.CanScore {
		return nil, ErrScoreForbidden
	}

	var updated *models.Match
	err := s.txRunner.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Source != models.SourceEngine {
			return ErrEngineSourceOnly
		}
		if m.Status != models.MatchStatusLive && m.Status != models.MatchStatusCompleted {
			return fmt.Errorf("%w: cannot undo a %s match", ErrInvalidTransition, m.Status)
		}

		prev, err := s.historyRepo.PopLatest(ctx, exec, m.ID)
		if err != nil {
			return mapRepositoryError(err)
		}

		if m.Status == models.MatchStatusCompleted {
			if err := s.propagator.Rollback(ctx, exec, m); err != nil {
				return err
			}
		}

		if err := s.matchRepo.UpdateStateVersioned(ctx, exec, m.ID, prev, m.Version, models.MatchStatusLive, nil); err != nil {
			return mapRepositoryError(err)
		}

		m.State = prev
		m.Status = models.MatchStatusLive
		m.WinnerParticipantID = nil
		m.Version++
		updated = m
		return nil
	})
	if err != nil {
		undoTotal.WithLabelValues(resultRejected).Inc()
		return nil, noteConflict(err)
	}

	undoTotal.WithLabelValues(resultOK).Inc()
	return s.announce(ctx, updated, true), nil
}

// Complete finishes a rule-less match by hand. Sports with rules complete
// through the engine; here the only requirement is an untied score.
func (s *matchService) Complete(ctx context.Context, matchID int, actor Actor) (*LiveMatch, error) {
	if !actor.CanScore {
		return nil, ErrScoreForbidden
	}

	var updated *models.Match
	err := s.txRunner.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Source != models.SourceEngine {
			return ErrEngineSourceOnly
		}
		if m.Config.Sport != models.SportGeneric {
			return fmt.Errorf("%w: %s matches complete through the engine", ErrInvalidTransition, m.Config.Sport)
		}
		if m.Status != models.MatchStatusLive || m.State == nil {
			return fmt.Errorf("%w: match is %s", ErrMatchNotScoreable, m.Status)
		}

		leader, ok := m.State.CurrentSetPoints.Leader()
		if !ok {
			return ErrTiedScore
		}
		winnerID := m.ParticipantIDForSide(leader)
		if winnerID == nil {
			return fmt.Errorf("match %d completed but the winning slot is empty", m.ID)
		}

		if err := s.historyRepo.Push(ctx, exec, m.ID, m.Version, m.State); err != nil {
			return mapRepositoryError(err)
		}

		next := m.State.Clone()
		next.IsMatchComplete = true
		if err := s.matchRepo.UpdateStateVersioned(ctx, exec, m.ID, &next, m.Version, models.MatchStatusCompleted, winnerID); err != nil {
			return mapRepositoryError(err)
		}
		if err := s.propagator.Propagate(ctx, exec, m, *winnerID); err != nil {
			return err
		}

		m.State = &next
		m.Status = models.MatchStatusCompleted
		m.WinnerParticipantID = winnerID
		m.Version++
		updated = m
		return nil
	})
	if err != nil {
		return nil, noteConflict(err)
	}

	live := s.announce(ctx, updated, true)
	if s.archiver != nil {
		s.archiver.ExportAsync(updated, live.MatchPayload)
	}
	return live, nil
}

// ResolveBye advances the sole participant of a one-sided scheduled match.
// No state is created and the engine never runs; the match lands directly
// in the bye status with its winner routed downstream.
func (s *matchService) ResolveBye(ctx context.Context, matchID int) (*LiveMatch, error) {
	var updated *models.Match
	err := s.txRunner.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Status != models.MatchStatusScheduled {
			return fmt.Errorf("%w: cannot resolve a %s match as a bye", ErrInvalidTransition, m.Status)
		}
		winnerID, ok := m.SoleParticipant()
		if !ok {
			return ErrNotAByeMatch
		}

		if err := s.matchRepo.UpdateStateVersioned(ctx, exec, m.ID, nil, m.Version, models.MatchStatusBye, &winnerID); err != nil {
			return mapRepositoryError(err)
		}
		if err := s.propagator.Propagate(ctx, exec, m, winnerID); err != nil {
			return err
		}

		m.Status = models.MatchStatusBye
		m.WinnerParticipantID = &winnerID
		m.Version++
		updated = m
		return nil
	})
	if err != nil {
		return nil, noteConflict(err)
	}
	return s.announce(ctx, updated, true), nil
}

// Cancel withdraws a match that has not finished. Nothing is propagated
// and any live state is kept for the record.
func (s *matchService) Cancel(ctx context.Context, matchID int, actor Actor) (*LiveMatch, error) {
	if !actor.CanScore {
		return nil, ErrScoreForbidden
	}

	var updated *models.Match
	err := s.txRunner.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Status != models.MatchStatusScheduled && m.Status != models.MatchStatusLive {
			return fmt.Errorf("%w: cannot cancel a %s match", ErrInvalidTransition, m.Status)
		}
		if err := s.matchRepo.UpdateStateVersioned(ctx, exec, m.ID, m.State, m.Version, models.MatchStatusCanceled, nil); err != nil {
			return mapRepositoryError(err)
		}

		m.Status = models.MatchStatusCanceled
		m.Version++
		updated = m
		return nil
	})
	if err != nil {
		return nil, noteConflict(err)
	}
	return s.announce(ctx, updated, false), nil
}

// ImportSnapshot replaces an external match's state with a parsed feed
// document. The first accepted snapshot takes the match live; a snapshot
// that declares completion finishes it, after which further imports are
// refused. Feed posts race through the same version gate as scorer taps.
func (s *matchService) ImportSnapshot(ctx context.Context, matchID int, doc []byte, actor Actor) (*LiveMatch, error) {
	if !actor.CanScore {
		return nil, ErrScoreForbidden
	}
	state, err := livedata.ParseSnapshot(doc)
	if err != nil {
		return nil, err
	}

	var (
		updated   *models.Match
		completed bool
	)
	err = s.txRunner.InTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			return mapRepositoryError(err)
		}
		if m.Source != models.SourceExternal {
			return ErrExternalSourceOnly
		}
		if m.Status != models.MatchStatusScheduled && m.Status != models.MatchStatusLive {
			return fmt.Errorf("%w: cannot import into a %s match", ErrInvalidTransition, m.Status)
		}

		status := models.MatchStatusLive
		var winnerID *int
		if state.IsMatchComplete {
			status = models.MatchStatusCompleted
			if side, ok := snapshotWinnerSide(state); ok {
				winnerID = m.ParticipantIDForSide(side)
			}
			if winnerID == nil {
				s.logger.Warn("snapshot completed match without a resolvable winner",
					"match_id", m.ID)
			}
		}

		if err := s.matchRepo.UpdateStateVersioned(ctx, exec, m.ID, &state, m.Version, status, winnerID); err != nil {
			return mapRepositoryError(err)
		}
		if winnerID != nil {
			if err := s.propagator.Propagate(ctx, exec, m, *winnerID); err != nil {
				return err
			}
		}

		m.State = &state
		m.Status = status
		m.WinnerParticipantID = winnerID
		m.Version++
		updated = m
		completed = state.IsMatchComplete
		return nil
	})
	if err != nil {
		return nil, noteConflict(err)
	}

	live := s.announce(ctx, updated, completed)
	if completed && s.archiver != nil {
		s.archiver.ExportAsync(updated, live.MatchPayload)
	}
	return live, nil
}

func (s *matchService) GetLiveMatch(ctx context.Context, matchID int) (*LiveMatch, error) {
	m, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return s.buildLiveMatch(ctx, m)
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]LiveMatch, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, round, status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	byID := make(map[int]*models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	out := make([]LiveMatch, 0, len(matches))
	for _, m := range matches {
		var p1, p2 *models.Participant
		if m.P1ParticipantID != nil {
			p1 = byID[*m.P1ParticipantID]
		}
		if m.P2ParticipantID != nil {
			p2 = byID[*m.P2ParticipantID]
		}
		out = append(out, LiveMatch{MatchPayload: livedata.NewMatchPayload(m, tournament, p1, p2)})
	}
	return out, nil
}

// buildLiveMatch assembles the read model, fetching the payload context in
// parallel.
func (s *matchService) buildLiveMatch(ctx context.Context, m *models.Match) (*LiveMatch, error) {
	var (
		tournament *models.Tournament
		p1, p2     *models.Participant
		undoDepth  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gctx, nil, m.TournamentID)
		if err != nil {
			return err
		}
		tournament = t
		return nil
	})
	if m.P1ParticipantID != nil {
		id := *m.P1ParticipantID
		g.Go(func() error {
			p, err := s.participantRepo.GetByID(gctx, nil, id)
			if err != nil {
				return err
			}
			p1 = p
			return nil
		})
	}
	if m.P2ParticipantID != nil {
		id := *m.P2ParticipantID
		g.Go(func() error {
			p, err := s.participantRepo.GetByID(gctx, nil, id)
			if err != nil {
				return err
			}
			p2 = p
			return nil
		})
	}
	if m.Source == models.SourceEngine {
		g.Go(func() error {
			n, err := s.historyRepo.CountByMatch(gctx, m.ID)
			if err != nil {
				return err
			}
			undoDepth = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, mapRepositoryError(err)
	}
	return &LiveMatch{
		MatchPayload: livedata.NewMatchPayload(m, tournament, p1, p2),
		UndoDepth:    undoDepth,
	}, nil
}

// announce pushes the committed update to the match room and the owning
// tournament room, then returns the read model. A failed context fetch
// degrades the payload instead of failing a mutation that already
// committed.
func (s *matchService) announce(ctx context.Context, m *models.Match, bracketChanged bool) *LiveMatch {
	live, err := s.buildLiveMatch(ctx, m)
	if err != nil {
		s.logger.Warn("live payload context unavailable", "match_id", m.ID, "error", err)
		live = &LiveMatch{MatchPayload: livedata.NewMatchPayload(m, nil, nil, nil)}
	}
	if s.hub == nil {
		return live
	}

	matchRoom := brackets.RoomForMatch(m.ID)
	s.hub.BroadcastToRoom(matchRoom, brackets.WebSocketMessage{
		Type:    msgMatchUpdated,
		Payload: live.MatchPayload,
		RoomID:  matchRoom,
	})
	tournamentRoom := brackets.RoomForTournament(m.TournamentID)
	s.hub.BroadcastToRoom(tournamentRoom, brackets.WebSocketMessage{
		Type:    msgMatchUpdated,
		Payload: live.MatchPayload,
		RoomID:  tournamentRoom,
	})
	if bracketChanged {
		s.hub.BroadcastToRoom(tournamentRoom, brackets.WebSocketMessage{
			Type:    msgBracketUpdated,
			Payload: live.MatchPayload,
			RoomID:  tournamentRoom,
		})
	}
	return live
}

// engineWinnerSide resolves which side a completed engine state belongs
// to.
func engineWinnerSide(cfg models.MatchConfig, state models.MatchState) (models.Side, bool) {
	for _, side := range []models.Side{models.SideA, models.SideB} {
		if state.SetsWon(side) >= cfg.SetsToWin {
			return side, true
		}
	}
	return models.SideA, false
}

// snapshotWinnerSide derives a winner from feed truth alone: sets first,
// then the running point score.
func snapshotWinnerSide(state models.MatchState) (models.Side, bool) {
	a, b := state.SetsWon(models.SideA), state.SetsWon(models.SideB)
	if a != b {
		if a > b {
			return models.SideA, true
		}
		return models.SideB, true
	}
	return state.CurrentSetPoints.Leader()
}

func noteConflict(err error) error {
	if errors.Is(err, ErrConcurrencyConflict) {
		conflictsTotal.Inc()
	}
	return err
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, scoring.ErrInvalidTransition):
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	case errors.Is(err, scoring.ErrInvalidConfiguration):
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	default:
		return err
	}
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrDisplayKeyNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrMatchVersionConflict):
		return ErrConcurrencyConflict
	case errors.Is(err, repositories.ErrHistoryEmpty):
		return ErrHistoryEmpty
	case errors.Is(err, repositories.ErrMatchTournamentInvalid),
		errors.Is(err, repositories.ErrMatchParticipantInvalid),
		errors.Is(err, repositories.ErrMatchLinkageInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}
