package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
)

type PlayerRepository struct {
	mu          sync.RWMutex
	nextID      int64
	rows        map[int64]player.Player
	memberships []player.Membership
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{nextID: 1, rows: make(map[int64]player.Player)}
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, row := range r.rows {
		if row.ExternalID == p.ExternalID {
			p.ID = id
			p.CreatedAt = row.CreatedAt
			p.UpdatedAt = now
			p.Credits = row.Credits
			p.Points = row.Points
			p.SelectedByPct = row.SelectedByPct
			p.PlayedLastMatch = row.PlayedLastMatch
			r.rows[id] = p
			return p, nil
		}
	}

	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now
	r.rows[p.ID] = p
	return p, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	return row, ok, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.rows {
		if row.ExternalID == externalID {
			return row, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) MapExternalIDs(_ context.Context, externalIDs []int64) (map[int64]int64, error) {
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

func (r *PlayerRepository) ListByTeamSeason(_ context.Context, teamID int64, season string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, 16)
	for _, m := range r.memberships {
		if m.TeamID != teamID || m.Season != season {
			continue
		}
		if row, ok := r.rows[m.PlayerID]; ok {
			out = append(out, row)
		}
	}
	sortByID(out, func(p player.Player) int64 { return p.ID })
	return out, nil
}

func (r *PlayerRepository) ListIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		out = append(out, id)
	}
	sortByID(out, func(id int64) int64 { return id })
	return out, nil
}

func (r *PlayerRepository) EnsureMembership(_ context.Context, m player.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.memberships {
		if existing == m {
			return nil
		}
	}
	r.memberships = append(r.memberships, m)
	return nil
}

func (r *PlayerRepository) UpdateRating(_ context.Context, id int64, credits, points, selectedByPct decimal.Decimal, playedLastMatch bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	row.Credits = credits
	row.Points = points
	row.SelectedByPct = selectedByPct
	row.PlayedLastMatch = playedLastMatch
	row.UpdatedAt = time.Now().UTC()
	r.rows[id] = row
	return nil
}
