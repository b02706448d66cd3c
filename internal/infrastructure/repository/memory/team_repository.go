package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{nextID: 1, rows: make(map[int64]team.Team)}
}

func (r *TeamRepository) Upsert(_ context.Context, t team.Team) (team.Team, error) {
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

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	return row, ok, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.ExternalID == externalID {
			return row, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.rows))
	for _, row := range r.rows {
		if row.TournamentID == tournamentID {
			out = append(out, row)
		}
	}
	sortByID(out, func(t team.Team) int64 { return t.ID })
	return out, nil
}

func (r *TeamRepository) MapExternalIDs(_ context.Context, externalIDs []int64) (map[int64]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]int64, len(externalIDs))
	for _, externalID := range externalIDs {
		for _, row := range r.rows {
			if row.ExternalID == externalID {
				out[externalID] = row.ID
				break
			}
		}
	}
	return out, nil
}
