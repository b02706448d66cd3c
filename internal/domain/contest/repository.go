package contest

import "context"

type Repository interface {
	Create(ctx context.Context, c Contest) (Contest, error)
	Update(ctx context.Context, c Contest) error
	GetByID(ctx context.Context, id int64) (Contest, bool, error)
	ListByMatch(ctx context.Context, matchID int64, status string) ([]Contest, error)
	// SoftDelete marks the contest deleted; rows with entries are never
	// removed from storage.
	SoftDelete(ctx context.Context, id int64) error

	// AddEntry inserts the entry and bumps the contest's filled-spot count
	// atomically, failing with a conflict when the contest is already full.
	AddEntry(ctx context.Context, e Entry) (Entry, error)
	CountEntriesByUser(ctx context.Context, contestID, userID int64) (int, error)
	ListEntries(ctx context.Context, contestID int64) ([]Entry, error)
	// UpdateEntryRanks persists points and rank for every entry after a
	// leaderboard pass.
	UpdateEntryRanks(ctx context.Context, entries []Entry) error
}
