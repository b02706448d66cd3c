package stats

import "context"

type Repository interface {
	// InTx runs fn against a transaction-scoped view of the repository. All
	// writes fn issues commit together or not at all; fn returning an error
	// rolls everything back.
	InTx(ctx context.Context, fn func(Repository) error) error
	GetByMatchAndPlayer(ctx context.Context, matchID, playerID int64) (PlayerMatchStat, bool, error)
	ListByMatch(ctx context.Context, matchID int64) ([]PlayerMatchStat, error)
	ListRecentByPlayer(ctx context.Context, playerID int64, limit int) ([]PlayerMatchStat, error)
	// UpsertBatting writes the batting section of the (match, player) row,
	// inserting the row when it does not exist yet. The other disciplines
	// keep their stored values. UpsertBowling and UpsertFielding behave the
	// same way for their sections.
	UpsertBatting(ctx context.Context, matchID, playerID, teamID int64, line Batting) error
	UpsertBowling(ctx context.Context, matchID, playerID, teamID int64, line Bowling) error
	UpsertFielding(ctx context.Context, matchID, playerID, teamID int64, line Fielding) error
}

type LineupRepository interface {
	ReplaceLineup(ctx context.Context, matchID int64, entries []LineupEntry) error
	ListLineup(ctx context.Context, matchID int64) ([]LineupEntry, error)
}
