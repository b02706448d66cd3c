package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type teamTableModel struct {
	ID           int64     `db:"id"`
	ExternalID   int64     `db:"external_id"`
	TournamentID int64     `db:"tournament_id"`
	Name         string    `db:"name"`
	ShortName    string    `db:"short_name"`
	LogoURL      string    `db:"logo_url"`
	Country      string    `db:"country"`
	Metadata     []byte    `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ExternalID   int64  `db:"external_id"`
	TournamentID int64  `db:"tournament_id"`
	Name         string `db:"name"`
	ShortName    string `db:"short_name"`
	LogoURL      string `db:"logo_url"`
	Country      string `db:"country"`
	Metadata     []byte `db:"metadata"`
}

func teamFromRow(row teamTableModel) team.Team {
	out := team.Team{
		ID:           row.ID,
		ExternalID:   row.ExternalID,
		TournamentID: row.TournamentID,
		Name:         row.Name,
		ShortName:    row.ShortName,
		LogoURL:      row.LogoURL,
		Country:      row.Country,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.Metadata) > 0 {
		_ = sonic.Unmarshal(row.Metadata, &out.Metadata)
	}
	return out
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, t team.Team) (team.Team, error) {
	insertModel := teamInsertModel{
		ExternalID:   t.ExternalID,
		TournamentID: t.TournamentID,
		Name:         t.Name,
		ShortName:    t.ShortName,
		LogoURL:      t.LogoURL,
		Country:      t.Country,
		Metadata:     marshalMetadata(t.Metadata),
	}

	query, args, err := qb.InsertModel("teams", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    tournament_id = EXCLUDED.tournament_id,
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    logo_url = EXCLUDED.logo_url,
    country = EXCLUDED.country,
    updated_at = NOW()
RETURNING id, created_at, updated_at`)
	if err != nil {
		return team.Team{}, fmt.Errorf("build team upsert query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return team.Team{}, fmt.Errorf("upsert team: %w", err)
	}
	return t, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").Where(cond).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) MapExternalIDs(ctx context.Context, externalIDs []int64) (map[int64]int64, error) {
	if len(externalIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := qb.Select("id", "external_id").From("teams").
		Where(qb.Expr("external_id = ANY(?)", pq.Array(externalIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build map team ids query: %w", err)
	}

	var rows []struct {
		ID         int64 `db:"id"`
		ExternalID int64 `db:"external_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("map team ids: %w", err)
	}

	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.ExternalID] = row.ID
	}
	return out, nil
}
