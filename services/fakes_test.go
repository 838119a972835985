package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/courtsidehq/courtside/brackets"
	"github.com/courtsidehq/courtside/livedata"
	"github.com/courtsidehq/courtside/models"
	"github.com/courtsidehq/courtside/repositories"
)

// The fakes below back the service tests with in-memory state. The tx
// runner snapshots the mutable repos before each transaction and restores
// them when the closure fails, mirroring a database rollback.

type fakeTxRunner struct {
	matches *fakeMatchRepo
	history *fakeHistoryRepo
}

func (r *fakeTxRunner) InTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	matchSnap := r.matches.snapshot()
	historySnap := r.history.snapshot()
	if err := fn(nil); err != nil {
		r.matches.restore(matchSnap)
		r.history.restore(historySnap)
		return err
	}
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]*models.Match

	// failNextUpdate makes the next versioned update lose the race.
	failNextUpdate bool
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneMatch(m *models.Match) *models.Match {
	out := *m
	out.P1ParticipantID = cloneIntPtr(m.P1ParticipantID)
	out.P2ParticipantID = cloneIntPtr(m.P2ParticipantID)
	out.WinnerParticipantID = cloneIntPtr(m.WinnerParticipantID)
	out.NextMatchDBID = cloneIntPtr(m.NextMatchDBID)
	out.WinnerToSlot = cloneIntPtr(m.WinnerToSlot)
	out.LoserNextMatchDBID = cloneIntPtr(m.LoserNextMatchDBID)
	out.LoserToSlot = cloneIntPtr(m.LoserToSlot)
	if m.State != nil {
		st := m.State.Clone()
		out.State = &st
	}
	if m.PropagatedAt != nil {
		at := *m.PropagatedAt
		out.PropagatedAt = &at
	}
	if m.Court != nil {
		c := *m.Court
		out.Court = &c
	}
	if m.ArchiveKey != nil {
		k := *m.ArchiveKey
		out.ArchiveKey = &k
	}
	return &out
}

// put stores a match directly, assigning an ID when missing. Tests use it
// to seed arbitrary states without going through Create.
func (r *fakeMatchRepo) put(m *models.Match) *models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	} else if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	r.matches[m.ID] = cloneMatch(m)
	return cloneMatch(m)
}

func (r *fakeMatchRepo) snapshot() map[int]*models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[int]*models.Match, len(r.matches))
	for id, m := range r.matches {
		snap[id] = cloneMatch(m)
	}
	return snap
}

func (r *fakeMatchRepo) restore(snap map[int]*models.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = snap
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match.ID = r.nextID
	r.nextID++
	match.CreatedAt = time.Now()
	match.UpdatedAt = match.CreatedAt
	r.matches[match.ID] = cloneMatch(match)
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		out = append(out, cloneMatch(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateStateVersioned(_ context.Context, _ repositories.SQLExecutor, id int, state *models.MatchState, expectedVersion int, status models.MatchStatus, winnerParticipantID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if r.failNextUpdate {
		r.failNextUpdate = false
		return repositories.ErrMatchVersionConflict
	}
	if m.Version != expectedVersion {
		return repositories.ErrMatchVersionConflict
	}
	if state != nil {
		st := state.Clone()
		m.State = &st
	} else {
		m.State = nil
	}
	m.Version++
	m.Status = status
	m.WinnerParticipantID = cloneIntPtr(winnerParticipantID)
	m.UpdatedAt = time.Now()
	return nil
}

func (r *fakeMatchRepo) AssignParticipantToSlot(_ context.Context, _ repositories.SQLExecutor, matchID, slot, participantID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	target := &m.P1ParticipantID
	if slot == 2 {
		target = &m.P2ParticipantID
	}
	if *target != nil {
		return repositories.ErrMatchSlotOccupied
	}
	*target = &participantID
	return nil
}

func (r *fakeMatchRepo) ClearSlot(_ context.Context, _ repositories.SQLExecutor, matchID, slot, participantID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	target := &m.P1ParticipantID
	if slot == 2 {
		target = &m.P2ParticipantID
	}
	if *target == nil || **target != participantID {
		return repositories.ErrMatchSlotMismatch
	}
	*target = nil
	return nil
}

func (r *fakeMatchRepo) SetPropagatedAt(_ context.Context, _ repositories.SQLExecutor, matchID int, at *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if at != nil {
		t := *at
		m.PropagatedAt = &t
	} else {
		m.PropagatedAt = nil
	}
	return nil
}

func (r *fakeMatchRepo) UpdateArchiveKey(_ context.Context, matchID int, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ArchiveKey = &key
	return nil
}

type historyEntry struct {
	seq   int
	state models.MatchState
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries map[int][]historyEntry
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: make(map[int][]historyEntry)}
}

func (r *fakeHistoryRepo) snapshot() map[int][]historyEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[int][]historyEntry, len(r.entries))
	for id, list := range r.entries {
		cp := make([]historyEntry, len(list))
		copy(cp, list)
		snap[id] = cp
	}
	return snap
}

func (r *fakeHistoryRepo) restore(snap map[int][]historyEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = snap
}

func (r *fakeHistoryRepo) Push(_ context.Context, _ repositories.SQLExecutor, matchID, seq int, state *models.MatchState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[matchID] = append(r.entries[matchID], historyEntry{seq: seq, state: state.Clone()})
	return nil
}

func (r *fakeHistoryRepo) PopLatest(_ context.Context, _ repositories.SQLExecutor, matchID int) (*models.MatchState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.entries[matchID]
	if len(list) == 0 {
		return nil, repositories.ErrHistoryEmpty
	}
	top := 0
	for i := range list {
		if list[i].seq > list[top].seq {
			top = i
		}
	}
	entry := list[top]
	r.entries[matchID] = append(list[:top], list[top+1:]...)
	st := entry.state.Clone()
	return &st, nil
}

func (r *fakeHistoryRepo) CountByMatch(_ context.Context, matchID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries[matchID]), nil
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	nextID      int
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) put(t *models.Tournament) *models.Tournament {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	}
	cp := *t
	r.tournaments[t.ID] = &cp
	out := cp
	return &out
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tournament
	for _, t := range r.tournaments {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	nextID       int
	participants map[int]*models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{nextID: 1, participants: make(map[int]*models.Participant)}
}

func (r *fakeParticipantRepo) put(p *models.Participant) *models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	cp := *p
	r.participants[p.ID] = &cp
	out := cp
	return &out
}

func (r *fakeParticipantRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipantRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Participant
	for _, p := range r.participants {
		if p.TournamentID != tournamentID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeDisplayKeyRepo struct {
	mu   sync.Mutex
	keys map[int]*models.DisplayKey
}

func newFakeDisplayKeyRepo() *fakeDisplayKeyRepo {
	return &fakeDisplayKeyRepo{keys: make(map[int]*models.DisplayKey)}
}

func (r *fakeDisplayKeyRepo) put(k *models.DisplayKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *k
	r.keys[k.ID] = &cp
}

func (r *fakeDisplayKeyRepo) GetByID(_ context.Context, id int) (*models.DisplayKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[id]
	if !ok {
		return nil, repositories.ErrDisplayKeyNotFound
	}
	cp := *k
	return &cp, nil
}

type recordingHub struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (h *recordingHub) BroadcastToRoom(_ string, message interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if msg, ok := message.(brackets.WebSocketMessage); ok {
		h.messages = append(h.messages, msg)
	}
}

func (h *recordingHub) byType(msgType string) []brackets.WebSocketMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []brackets.WebSocketMessage
	for _, m := range h.messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (h *recordingHub) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

type recordingArchiver struct {
	mu       sync.Mutex
	exported []int
}

func (a *recordingArchiver) ExportAsync(match *models.Match, _ livedata.MatchPayload) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exported = append(a.exported, match.ID)
}

func (a *recordingArchiver) exportCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.exported)
}

type testEnv struct {
	matches      *fakeMatchRepo
	history      *fakeHistoryRepo
	tournaments  *fakeTournamentRepo
	participants *fakeParticipantRepo
	hub          *recordingHub
	archiver     *recordingArchiver
	svc          MatchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		matches:      newFakeMatchRepo(),
		history:      newFakeHistoryRepo(),
		tournaments:  newFakeTournamentRepo(),
		participants: newFakeParticipantRepo(),
		hub:          &recordingHub{},
		archiver:     &recordingArchiver{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.svc = NewMatchService(
		&fakeTxRunner{matches: env.matches, history: env.history},
		env.matches,
		env.history,
		env.tournaments,
		env.participants,
		NewPropagationService(env.matches),
		env.hub,
		env.archiver,
		logger,
	)
	return env
}

func (e *testEnv) seedTournament(status models.TournamentStatus) *models.Tournament {
	return e.tournaments.put(&models.Tournament{Name: "City Open", Status: status, CreatedAt: time.Now()})
}

func (e *testEnv) seedParticipant(tournamentID int, name string) *models.Participant {
	return e.participants.put(&models.Participant{TournamentID: tournamentID, DisplayName: name})
}

func scorer() Actor {
	return Actor{UserID: 7, CanScore: true}
}

func viewer() Actor {
	return Actor{UserID: 8, CanScore: false}
}

func intPtr(v int) *int {
	return &v
}

func bestOfThreeTennis() models.MatchConfig {
	return models.MatchConfig{Sport: models.SportTennis, SetsToWin: 2}.Normalized()
}
