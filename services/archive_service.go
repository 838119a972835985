package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtsidehq/courtside/livedata"
	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/repositories"
	"github.com/courtsidehq/courtside/storage"
)

// archiveDocument is the exported score record. It carries both the
// display payload (with its legacy spellings) and the canonical final
// state, so archived matches can be rendered or analyzed without a live
// server.
type archiveDocument struct {
	ExportedAt time.Time             `json:"exported_at"`
	Match      livedata.MatchPayload `json:"match"`
	Config     models.MatchConfig    `json:"config"`
	FinalState *models.MatchState    `json:"final_state,omitempty"`
}

type archiveService struct {
	uploader  storage.FileUploader
	matchRepo repositories.MatchRepository
	logger    *slog.Logger
	timeout   time.Duration
}

// NewArchiveService returns an Archiver that writes completed matches to
// object storage and records the object key on the match row.
func NewArchiveService(uploader storage.FileUploader, matchRepo repositories.MatchRepository, logger *slog.Logger) Archiver {
	return &archiveService{
		uploader:  uploader,
		matchRepo: matchRepo,
		logger:    logger,
		timeout:   30 * time.Second,
	}
}

// ExportAsync uploads in the background. The mutation that completed the
// match has already committed, so an export failure is logged rather than
// surfaced to the scorer.
func (s *archiveService) ExportAsync(match *models.Match, payload livedata.MatchPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.export(ctx, match, payload); err != nil {
			s.logger.Error("score archive export failed", "match_id", match.ID, "error", err)
		}
	}()
}

func (s *archiveService) export(ctx context.Context, match *models.Match, payload livedata.MatchPayload) error {
	doc := archiveDocument{
		ExportedAt: time.Now().UTC(),
		Match:      payload,
		Config:     match.Config,
		FinalState: match.State,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal archive document: %w", err)
	}

	key := archiveObjectKey(match)
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return err
	}
	if err := s.matchRepo.UpdateArchiveKey(ctx, match.ID, key); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

// archiveObjectKey is deterministic so re-exporting a match overwrites its
// document instead of accumulating copies.
func archiveObjectKey(m *models.Match) string {
	return fmt.Sprintf("archives/tournament_%d/match_%d.json", m.TournamentID, m.ID)
}
