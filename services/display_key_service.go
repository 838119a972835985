package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/repositories"
	"github.com/courtsidehq/courtside/utils"
)

// DisplayKeyService verifies the API keys presented by read-only overlay
// and scoreboard clients.
type DisplayKeyService interface {
	Verify(ctx context.Context, presented string) (*models.DisplayKey, error)
}

type displayKeyService struct {
	displayKeyRepo repositories.DisplayKeyRepository
}

func NewDisplayKeyService(displayKeyRepo repositories.DisplayKeyRepository) DisplayKeyService {
	return &displayKeyService{displayKeyRepo: displayKeyRepo}
}

// Verify checks a key presented as "<id>.<secret>" against the stored
// bcrypt hash. Every failure collapses to ErrDisplayKeyInvalid.
func (s *displayKeyService) Verify(ctx context.Context, presented string) (*models.DisplayKey, error) {
	idPart, secret, ok := strings.Cut(presented, ".")
	if !ok || secret == "" {
		return nil, ErrDisplayKeyInvalid
	}
	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		return nil, ErrDisplayKeyInvalid
	}

	key, err := s.displayKeyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrDisplayKeyInvalid
	}
	if key.Revoked() || !utils.CheckSecretHash(secret, key.SecretHash) {
		return nil, ErrDisplayKeyInvalid
	}
	return key, nil
}
