package fantasy

import "context"

type Repository interface {
	// Save inserts the team or replaces the user's existing lineup for the
	// same match, picks included.
	Save(ctx context.Context, t Team) (Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	ListByUserAndMatch(ctx context.Context, userID, matchID int64) ([]Team, error)
	// ListByUser returns every lineup a user has saved, across matches.
	ListByUser(ctx context.Context, userID int64) ([]Team, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Team, error)
	// UpdatePoints stores the recomputed per-pick and total points after a
	// scoring pass.
	UpdatePoints(ctx context.Context, t Team) error
}
