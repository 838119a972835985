package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtsidehq/courtside/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchVersionConflict    = errors.New("match version conflict")
	ErrMatchTournamentInvalid  = errors.New("match tournament conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchLinkageInvalid     = errors.New("match bracket linkage invalid")
	ErrMatchSlotOccupied       = errors.New("match slot already occupied")
	ErrMatchSlotMismatch       = errors.New("match slot holds a different participant")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	// UpdateStateVersioned is the concurrency gate: it writes state, status
	// and winner only if the row still holds expectedVersion, bumping the
	// version in the same statement. A lost race yields
	// ErrMatchVersionConflict.
	UpdateStateVersioned(ctx context.Context, exec SQLExecutor, id int, state *models.MatchState, expectedVersion int, status models.MatchStatus, winnerParticipantID *int) error
	AssignParticipantToSlot(ctx context.Context, exec SQLExecutor, matchID, slot, participantID int) error
	ClearSlot(ctx context.Context, exec SQLExecutor, matchID, slot, participantID int) error
	SetPropagatedAt(ctx context.Context, exec SQLExecutor, matchID int, at *time.Time) error
	UpdateArchiveKey(ctx context.Context, matchID int, key string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, bracket_type, round, p1_participant_id, p2_participant_id,
	       source, status, court, config, live_state, version, winner_participant_id,
	       next_match_db_id, winner_to_slot, loser_next_match_db_id, loser_to_slot,
	       propagated_at, archive_key, created_at, updated_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)

	configJSON, err := json.Marshal(match.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal match config: %w", err)
	}
	stateJSON, err := marshalState(match.State)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matches
			(tournament_id, bracket_type, round, p1_participant_id, p2_participant_id,
			 source, status, court, config, live_state, version,
			 next_match_db_id, winner_to_slot, loser_next_match_db_id, loser_to_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err = executor.QueryRowContext(ctx, query,
		match.TournamentID,
		match.BracketType,
		match.Round,
		match.P1ParticipantID,
		match.P2ParticipantID,
		match.Source,
		match.Status,
		match.Court,
		configJSON,
		stateJSON,
		match.Version,
		match.NextMatchDBID,
		match.WinnerToSlot,
		match.LoserNextMatchDBID,
		match.LoserToSlot,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	return handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, roundFilter *int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY round ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateStateVersioned(ctx context.Context, exec SQLExecutor, id int, state *models.MatchState, expectedVersion int, status models.MatchStatus, winnerParticipantID *int) error {
	executor := r.getExecutor(exec)

	stateJSON, err := marshalState(state)
	if err != nil {
		return err
	}

	query := `
		UPDATE matches
		SET live_state = $1, version = version + 1, status = $2,
		    winner_participant_id = $3, updated_at = NOW()
		WHERE id = $4 AND version = $5`

	result, err := executor.ExecContext(ctx, query, stateJSON, status, winnerParticipantID, id, expectedVersion)
	if err != nil {
		return handleMatchError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Zero rows means either the match is gone or someone else won the
	// version race; tell those apart for the caller.
	var exists bool
	err = executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to resolve versioned update of match %d: %w", id, err)
	}
	if !exists {
		return ErrMatchNotFound
	}
	return ErrMatchVersionConflict
}

func (r *postgresMatchRepository) AssignParticipantToSlot(ctx context.Context, exec SQLExecutor, matchID, slot, participantID int) error {
	executor := r.getExecutor(exec)
	column, err := slotColumn(slot)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE matches SET %s = $1, updated_at = NOW() WHERE id = $2 AND %s IS NULL`, column, column)
	result, err := executor.ExecContext(ctx, query, participantID, matchID)
	if err != nil {
		return handleMatchError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, matchID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to resolve slot assignment on match %d: %w", matchID, err)
	}
	if !exists {
		return ErrMatchNotFound
	}
	return ErrMatchSlotOccupied
}

func (r *postgresMatchRepository) ClearSlot(ctx context.Context, exec SQLExecutor, matchID, slot, participantID int) error {
	executor := r.getExecutor(exec)
	column, err := slotColumn(slot)
	if err != nil {
		return err
	}

	// The participant guard makes rollback surgical: only the occupant we
	// propagated gets removed.
	query := fmt.Sprintf(`UPDATE matches SET %s = NULL, updated_at = NOW() WHERE id = $1 AND %s = $2`, column, column)
	result, err := executor.ExecContext(ctx, query, matchID, participantID)
	if err != nil {
		return handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchSlotMismatch)
}

func (r *postgresMatchRepository) SetPropagatedAt(ctx context.Context, exec SQLExecutor, matchID int, at *time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET propagated_at = $1, updated_at = NOW() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, at, matchID)
	if err != nil {
		return fmt.Errorf("failed to set propagated_at on match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateArchiveKey(ctx context.Context, matchID int, key string) error {
	query := `UPDATE matches SET archive_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, key, matchID)
	if err != nil {
		return fmt.Errorf("failed to set archive key on match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		match      models.Match
		configJSON []byte
		stateJSON  []byte
	)
	err := row.Scan(
		&match.ID,
		&match.TournamentID,
		&match.BracketType,
		&match.Round,
		&match.P1ParticipantID,
		&match.P2ParticipantID,
		&match.Source,
		&match.Status,
		&match.Court,
		&configJSON,
		&stateJSON,
		&match.Version,
		&match.WinnerParticipantID,
		&match.NextMatchDBID,
		&match.WinnerToSlot,
		&match.LoserNextMatchDBID,
		&match.LoserToSlot,
		&match.PropagatedAt,
		&match.ArchiveKey,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(configJSON, &match.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config of match %d: %w", match.ID, err)
	}
	if stateJSON != nil {
		var state models.MatchState
		if err := json.Unmarshal(stateJSON, &state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal live state of match %d: %w", match.ID, err)
		}
		match.State = &state
	}
	return &match, nil
}

func marshalState(state *models.MatchState) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal match state: %w", err)
	}
	return stateJSON, nil
}

func slotColumn(slot int) (string, error) {
	switch slot {
	case 1:
		return "p1_participant_id", nil
	case 2:
		return "p2_participant_id", nil
	default:
		return "", fmt.Errorf("invalid participant slot %d", slot)
	}
}

func handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_p1_participant_id_fkey", "matches_p2_participant_id_fkey", "matches_winner_participant_id_fkey":
			return ErrMatchParticipantInvalid
		case "matches_next_match_db_id_fkey", "matches_loser_next_match_db_id_fkey":
			return ErrMatchLinkageInvalid
		}
		// "23514": check_violation, raised by the slot range checks.
		if pqErr.Code == "23514" {
			return ErrMatchLinkageInvalid
		}
	}
	return err
}
