package services

import (
	"context"

	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/repositories"
)

// TournamentService is the read-only view the scoring subsystem exposes.
// Tournament lifecycle is owned by the wider platform.
type TournamentService interface {
	List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo}
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, status)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if tournaments == nil {
		return []models.Tournament{}, nil
	}
	return tournaments, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return tournament, nil
}
