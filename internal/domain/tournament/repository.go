package tournament

import "context"

type Repository interface {
	// Upsert inserts the tournament keyed by external id or refreshes its
	// mutable fields, returning the stored row.
	Upsert(ctx context.Context, t Tournament) (Tournament, error)
	GetByID(ctx context.Context, id int64) (Tournament, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Tournament, bool, error)
	List(ctx context.Context, status string, limit, offset int) ([]Tournament, error)
}
