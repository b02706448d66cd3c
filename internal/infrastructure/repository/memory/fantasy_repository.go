package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
)

type FantasyTeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]fantasy.Team
}

func NewFantasyTeamRepository() *FantasyTeamRepository {
	return &FantasyTeamRepository{nextID: 1, rows: make(map[int64]fantasy.Team)}
}

func (r *FantasyTeamRepository) Save(_ context.Context, t fantasy.Team) (fantasy.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, row := range r.rows {
		if row.UserID == t.UserID && row.MatchID == t.MatchID {
			t.ID = id
			t.CreatedAt = row.CreatedAt
			t.UpdatedAt = now
			r.rows[id] = cloneTeam(t)
			return t, nil
		}
	}

	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	r.rows[t.ID] = cloneTeam(t)
	return t, nil
}

func (r *FantasyTeamRepository) GetByID(_ context.Context, id int64) (fantasy.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return fantasy.Team{}, false, nil
	}
	return cloneTeam(row), true, nil
}

func (r *FantasyTeamRepository) ListByUserAndMatch(_ context.Context, userID, matchID int64) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0, 1)
	for _, row := range r.rows {
		if row.UserID == userID && row.MatchID == matchID {
			out = append(out, cloneTeam(row))
		}
	}
	sortByID(out, func(t fantasy.Team) int64 { return t.ID })
	return out, nil
}

func (r *FantasyTeamRepository) ListByUser(_ context.Context, userID int64) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0, 4)
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, cloneTeam(row))
		}
	}
	sortByID(out, func(t fantasy.Team) int64 { return t.ID })
	return out, nil
}

func (r *FantasyTeamRepository) ListByMatch(_ context.Context, matchID int64) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0, 16)
	for _, row := range r.rows {
		if row.MatchID == matchID {
			out = append(out, cloneTeam(row))
		}
	}
	sortByID(out, func(t fantasy.Team) int64 { return t.ID })
	return out, nil
}

func (r *FantasyTeamRepository) UpdatePoints(_ context.Context, t fantasy.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[t.ID]
	if !ok {
		return nil
	}
	row.Points = t.Points
	row.Picks = make([]fantasy.Pick, len(t.Picks))
	copy(row.Picks, t.Picks)
	row.UpdatedAt = time.Now().UTC()
	r.rows[t.ID] = row
	return nil
}

func cloneTeam(t fantasy.Team) fantasy.Team {
	picks := make([]fantasy.Pick, len(t.Picks))
	copy(picks, t.Picks)
	t.Picks = picks
	return t
}
