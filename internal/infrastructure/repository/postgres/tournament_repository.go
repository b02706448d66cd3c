package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) Upsert(ctx context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	insertModel := tournamentInsertModel{
		ExternalID: t.ExternalID,
		Name:       t.Name,
		Season:     t.Season,
		Status:     t.Status,
		Metadata:   marshalMetadata(t.Metadata),
	}

	query, args, err := qb.InsertModel("tournaments", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    name = EXCLUDED.name,
    season = EXCLUDED.season,
    status = EXCLUDED.status,
    metadata = EXCLUDED.metadata,
    updated_at = NOW()
RETURNING id, created_at, updated_at`)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("build tournament upsert query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return tournament.Tournament{}, fmt.Errorf("upsert tournament: %w", err)
	}
	return t, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, id int64) (tournament.Tournament, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *TournamentRepository) GetByExternalID(ctx context.Context, externalID int64) (tournament.Tournament, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *TournamentRepository) getOne(ctx context.Context, cond qb.Condition) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").Where(cond).ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}
	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) List(ctx context.Context, status string, limit, offset int) ([]tournament.Tournament, error) {
	builder := qb.Select("*").From("tournaments")
	if status != "" {
		builder = builder.Where(qb.Eq("status", status))
	}
	query, args, err := builder.OrderBy("id").Limit(limit).Offset(offset).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}
