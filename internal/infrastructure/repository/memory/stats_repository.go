package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
)

type statKey struct {
	matchID  int64
	playerID int64
}

type StatsRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[statKey]stats.PlayerMatchStat
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{nextID: 1, rows: make(map[statKey]stats.PlayerMatchStat)}
}

// InTx snapshots the rows and restores them when fn fails, mirroring the
// rollback semantics of the postgres repository.
func (r *StatsRepository) InTx(_ context.Context, fn func(stats.Repository) error) error {
	r.mu.Lock()
	snapshot := make(map[statKey]stats.PlayerMatchStat, len(r.rows))
	for key, row := range r.rows {
		snapshot[key] = row
	}
	nextID := r.nextID
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.rows = snapshot
		r.nextID = nextID
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *StatsRepository) GetByMatchAndPlayer(_ context.Context, matchID, playerID int64) (stats.PlayerMatchStat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[statKey{matchID: matchID, playerID: playerID}]
	return row, ok, nil
}

func (r *StatsRepository) ListByMatch(_ context.Context, matchID int64) ([]stats.PlayerMatchStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.PlayerMatchStat, 0, 22)
	for key, row := range r.rows {
		if key.matchID == matchID {
			out = append(out, row)
		}
	}
	sortByID(out, func(s stats.PlayerMatchStat) int64 { return s.ID })
	return out, nil
}

func (r *StatsRepository) ListRecentByPlayer(_ context.Context, playerID int64, limit int) ([]stats.PlayerMatchStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.PlayerMatchStat, 0, limit)
	for key, row := range r.rows {
		if key.playerID == playerID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *StatsRepository) UpsertBatting(_ context.Context, matchID, playerID, teamID int64, line stats.Batting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.row(matchID, playerID, teamID)
	row.Batting = line
	row.UpdatedAt = time.Now().UTC()
	r.rows[statKey{matchID: matchID, playerID: playerID}] = row
	return nil
}

func (r *StatsRepository) UpsertBowling(_ context.Context, matchID, playerID, teamID int64, line stats.Bowling) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.row(matchID, playerID, teamID)
	row.Bowling = line
	row.UpdatedAt = time.Now().UTC()
	r.rows[statKey{matchID: matchID, playerID: playerID}] = row
	return nil
}

func (r *StatsRepository) UpsertFielding(_ context.Context, matchID, playerID, teamID int64, line stats.Fielding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.row(matchID, playerID, teamID)
	row.Fielding = line
	row.UpdatedAt = time.Now().UTC()
	r.rows[statKey{matchID: matchID, playerID: playerID}] = row
	return nil
}

// row returns the existing (match, player) row or seeds a new one, keeping a
// single aggregate row per pair regardless of which discipline lands first.
func (r *StatsRepository) row(matchID, playerID, teamID int64) stats.PlayerMatchStat {
	key := statKey{matchID: matchID, playerID: playerID}
	if row, ok := r.rows[key]; ok {
		row.TeamID = teamID
		return row
	}
	row := stats.PlayerMatchStat{
		ID:        r.nextID,
		MatchID:   matchID,
		PlayerID:  playerID,
		TeamID:    teamID,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	return row
}

type LineupRepository struct {
	mu   sync.RWMutex
	rows map[int64][]stats.LineupEntry
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{rows: make(map[int64][]stats.LineupEntry)}
}

func (r *LineupRepository) ReplaceLineup(_ context.Context, matchID int64, entries []stats.LineupEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]stats.LineupEntry, len(entries))
	copy(copied, entries)
	r.rows[matchID] = copied
	return nil
}

func (r *LineupRepository) ListLineup(_ context.Context, matchID int64) ([]stats.LineupEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.rows[matchID]
	out := make([]stats.LineupEntry, len(entries))
	copy(out, entries)
	return out, nil
}
