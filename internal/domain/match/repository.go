package match

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, m Match) (Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Match, bool, error)
	// ListWindow returns matches starting inside [from, to), oldest first.
	ListWindow(ctx context.Context, from, to time.Time, statuses []Status) ([]Match, error)
	ListByTournament(ctx context.Context, tournamentID int64, limit, offset int) ([]Match, error)
	// LastFinishedByTeam returns the team's most recent finished match,
	// playing at home or away.
	LastFinishedByTeam(ctx context.Context, teamID int64) (Match, bool, error)
	// UpdateState persists a lifecycle step together with the refreshed
	// scorecard. endsAt is only written when non-nil.
	UpdateState(ctx context.Context, id int64, status Status, endsAt *time.Time, card *Scorecard) error
}
