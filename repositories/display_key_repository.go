package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtsidehq/courtside/models"
)

var ErrDisplayKeyNotFound = errors.New("display key not found")

// DisplayKeyRepository reads the keys overlay clients authenticate with.
// Issuance and revocation happen out of band.
type DisplayKeyRepository interface {
	GetByID(ctx context.Context, id int) (*models.DisplayKey, error)
}

type postgresDisplayKeyRepository struct {
	db *sql.DB
}

func NewPostgresDisplayKeyRepository(db *sql.DB) DisplayKeyRepository {
	return &postgresDisplayKeyRepository{db: db}
}

func (r *postgresDisplayKeyRepository) GetByID(ctx context.Context, id int) (*models.DisplayKey, error) {
	query := `SELECT id, label, secret_hash, revoked_at, created_at FROM display_keys WHERE id = $1`

	key := &models.DisplayKey{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&key.ID,
		&key.Label,
		&key.SecretHash,
		&key.RevokedAt,
		&key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDisplayKeyNotFound
		}
		return nil, fmt.Errorf("failed to scan display key by id %d: %w", id, err)
	}
	return key, nil
}
