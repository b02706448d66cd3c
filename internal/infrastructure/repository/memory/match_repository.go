package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{nextID: 1, rows: make(map[int64]match.Match)}
}

func (r *MatchRepository) Upsert(_ context.Context, m match.Match) (match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, row := range r.rows {
		if row.ExternalID == m.ExternalID {
			m.ID = id
			m.CreatedAt = row.CreatedAt
			m.UpdatedAt = now
			m.Status = row.Status
			m.EndsAt = row.EndsAt
			m.Scorecard = row.Scorecard
			r.rows[id] = m
			return m, nil
		}
	}

	m.ID = r.nextID
	r.nextID++
	if m.Status == "" {
		m.Status = match.StatusNotStarted
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	r.rows[m.ID] = m
	return m, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	return row, ok, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.ExternalID == externalID {
			return row, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *MatchRepository) ListWindow(_ context.Context, from, to time.Time, statuses []match.Status) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[match.Status]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}

	out := make([]match.Match, 0, 16)
	for _, row := range r.rows {
		if row.StartsAt.Before(from) || !row.StartsAt.Before(to) {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[row.Status]; !ok {
				continue
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	return out, nil
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID int64, limit, offset int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, 16)
	for _, row := range r.rows {
		if row.TournamentID == tournamentID {
			out = append(out, row)
		}
	}
	sortByID(out, func(m match.Match) int64 { return m.ID })
	return paginate(out, limit, offset), nil
}

func (r *MatchRepository) LastFinishedByTeam(_ context.Context, teamID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last match.Match
	var found bool
	for _, row := range r.rows {
		if row.Status != match.StatusFinished {
			continue
		}
		if row.HomeTeamID != teamID && row.AwayTeamID != teamID {
			continue
		}
		if !found || row.StartsAt.After(last.StartsAt) {
			last = row
			found = true
		}
	}
	return last, found, nil
}

func (r *MatchRepository) UpdateState(_ context.Context, id int64, status match.Status, endsAt *time.Time, card *match.Scorecard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	row.Status = status
	if endsAt != nil {
		row.EndsAt = endsAt
	}
	if card != nil {
		row.Scorecard = card
	}
	row.UpdatedAt = time.Now().UTC()
	r.rows[id] = row
	return nil
}
