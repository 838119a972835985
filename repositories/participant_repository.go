package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtsidehq/courtside/models"
)

var ErrParticipantNotFound = errors.New("participant not found")

// ParticipantRepository is read-only: registration and seeding happen in
// the wider platform, scoring only needs names for slots and displays.
type ParticipantRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const participantColumns = `id, tournament_id, display_name, player_name, player2_name, country, seed, created_at`

func (r *postgresParticipantRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	participant := &models.Participant{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&participant.ID,
		&participant.TournamentID,
		&participant.DisplayName,
		&participant.PlayerName,
		&participant.Player2Name,
		&participant.Country,
		&participant.Seed,
		&participant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant by id %d: %w", id, err)
	}
	return participant, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1 ORDER BY seed NULLS LAST, display_name ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var participant models.Participant
		if scanErr := rows.Scan(
			&participant.ID,
			&participant.TournamentID,
			&participant.DisplayName,
			&participant.PlayerName,
			&participant.Player2Name,
			&participant.Country,
			&participant.Seed,
			&participant.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, &participant)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}
