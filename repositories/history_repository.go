package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtsidehq/courtside/models"
)

var ErrHistoryEmpty = errors.New("match history empty")

// HistoryRepository is the undo stack. Every successful point write pushes
// the pre-transition state, keyed by the match version it was taken at;
// undo pops the latest snapshot. Versions only ever grow, so (match_id,
// seq) stays unique across any undo/redo interleaving.
type HistoryRepository interface {
	Push(ctx context.Context, exec SQLExecutor, matchID, seq int, state *models.MatchState) error
	PopLatest(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchState, error)
	CountByMatch(ctx context.Context, matchID int) (int, error)
}

type postgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(db *sql.DB) HistoryRepository {
	return &postgresHistoryRepository{db: db}
}

func (r *postgresHistoryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresHistoryRepository) Push(ctx context.Context, exec SQLExecutor, matchID, seq int, state *models.MatchState) error {
	executor := r.getExecutor(exec)

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal history snapshot: %w", err)
	}

	query := `INSERT INTO match_state_history (match_id, seq, state) VALUES ($1, $2, $3)`
	if _, err := executor.ExecContext(ctx, query, matchID, seq, stateJSON); err != nil {
		return fmt.Errorf("failed to push history snapshot for match %d seq %d: %w", matchID, seq, err)
	}
	return nil
}

func (r *postgresHistoryRepository) PopLatest(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchState, error) {
	executor := r.getExecutor(exec)

	query := `
		DELETE FROM match_state_history
		WHERE match_id = $1
		  AND seq = (SELECT MAX(seq) FROM match_state_history WHERE match_id = $1)
		RETURNING state`

	var stateJSON []byte
	err := executor.QueryRowContext(ctx, query, matchID).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHistoryEmpty
		}
		return nil, fmt.Errorf("failed to pop history snapshot for match %d: %w", matchID, err)
	}

	var state models.MatchState
	if err := json.Unmarshal(stateJSON, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history snapshot for match %d: %w", matchID, err)
	}
	return &state, nil
}

func (r *postgresHistoryRepository) CountByMatch(ctx context.Context, matchID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_state_history WHERE match_id = $1`, matchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history snapshots for match %d: %w", matchID, err)
	}
	return count, nil
}
