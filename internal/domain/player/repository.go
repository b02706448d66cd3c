package player

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Upsert(ctx context.Context, p Player) (Player, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Player, bool, error)
	MapExternalIDs(ctx context.Context, externalIDs []int64) (map[int64]int64, error)
	ListByTeamSeason(ctx context.Context, teamID int64, season string) ([]Player, error)
	ListIDs(ctx context.Context) ([]int64, error)
	EnsureMembership(ctx context.Context, m Membership) error
	// UpdateRating refreshes the derived fantasy fields without touching the
	// synced identity columns.
	UpdateRating(ctx context.Context, id int64, credits, points, selectedByPct decimal.Decimal, playedLastMatch bool) error
}
