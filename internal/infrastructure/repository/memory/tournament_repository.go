package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
)

type TournamentRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]tournament.Tournament
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{nextID: 1, rows: make(map[int64]tournament.Tournament)}
}

func (r *TournamentRepository) Upsert(_ context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, row := range r.rows {
		if row.ExternalID == t.ExternalID {
			t.ID = id
			t.CreatedAt = row.CreatedAt
			t.UpdatedAt = now
			r.rows[id] = t
			return t, nil
		}
	}

	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = now
	t.UpdatedAt = now
	r.rows[t.ID] = t
	return t, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, id int64) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	return row, ok, nil
}

func (r *TournamentRepository) GetByExternalID(_ context.Context, externalID int64) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.ExternalID == externalID {
			return row, true, nil
		}
	}
	return tournament.Tournament{}, false, nil
}

func (r *TournamentRepository) List(_ context.Context, status string, limit, offset int) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.rows))
	for _, row := range r.rows {
		if status != "" && row.Status != status {
			continue
		}
		out = append(out, row)
	}
	sortByID(out, func(t tournament.Tournament) int64 { return t.ID })
	return paginate(out, limit, offset), nil
}
