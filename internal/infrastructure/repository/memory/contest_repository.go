package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/contest"
)

type ContestRepository struct {
	mu          sync.RWMutex
	nextID      int64
	nextEntryID int64
	rows        map[int64]contest.Contest
	entries     map[int64][]contest.Entry
}

func NewContestRepository() *ContestRepository {
	return &ContestRepository{
		nextID:      1,
		nextEntryID: 1,
		rows:        make(map[int64]contest.Contest),
		entries:     make(map[int64][]contest.Entry),
	}
}

func (r *ContestRepository) Create(_ context.Context, c contest.Contest) (contest.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = now
	c.UpdatedAt = now
	r.rows[c.ID] = cloneContest(c)
	return c, nil
}

func (r *ContestRepository) Update(_ context.Context, c contest.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[c.ID]
	if !ok {
		return nil
	}
	c.CreatedAt = row.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.rows[c.ID] = cloneContest(c)
	return nil
}

func (r *ContestRepository) GetByID(_ context.Context, id int64) (contest.Contest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return contest.Contest{}, false, nil
	}
	return cloneContest(row), true, nil
}

func (r *ContestRepository) ListByMatch(_ context.Context, matchID int64, status string) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0, 8)
	for _, row := range r.rows {
		if row.MatchID != matchID {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		out = append(out, cloneContest(row))
	}
	sortByID(out, func(c contest.Contest) int64 { return c.ID })
	return out, nil
}

func (r *ContestRepository) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	row.Status = contest.StatusDeleted
	row.UpdatedAt = time.Now().UTC()
	r.rows[id] = row
	return nil
}

func (r *ContestRepository) AddEntry(_ context.Context, e contest.Entry) (contest.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[e.ContestID]
	if !ok || row.FilledSpots >= row.TotalSpots {
		return contest.Entry{}, contest.ErrNoSpots
	}
	row.FilledSpots++
	row.UpdatedAt = time.Now().UTC()
	r.rows[e.ContestID] = row

	e.ID = r.nextEntryID
	r.nextEntryID++
	e.CreatedAt = time.Now().UTC()
	r.entries[e.ContestID] = append(r.entries[e.ContestID], e)
	return e, nil
}

func (r *ContestRepository) CountEntriesByUser(_ context.Context, contestID, userID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.entries[contestID] {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *ContestRepository) ListEntries(_ context.Context, contestID int64) ([]contest.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[contestID]
	out := make([]contest.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *ContestRepository) UpdateEntryRanks(_ context.Context, entries []contest.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, updated := range entries {
		rows := r.entries[updated.ContestID]
		for i, e := range rows {
			if e.ID == updated.ID {
				rows[i].Points = updated.Points
				rows[i].Rank = updated.Rank
				break
			}
		}
	}
	return nil
}

func cloneContest(c contest.Contest) contest.Contest {
	winnings := make([]contest.WinningTier, len(c.Winnings))
	copy(winnings, c.Winnings)
	c.Winnings = winnings
	return c
}
