package team

import "context"

type Repository interface {
	Upsert(ctx context.Context, t Team) (Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Team, bool, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]Team, error)
	// MapExternalIDs resolves provider team ids to internal ids in one query.
	// Unknown external ids are absent from the result.
	MapExternalIDs(ctx context.Context, externalIDs []int64) (map[int64]int64, error)
}
