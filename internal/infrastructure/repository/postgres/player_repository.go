package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type playerTableModel struct {
	ID              int64           `db:"id"`
	ExternalID      int64           `db:"external_id"`
	Name            string          `db:"name"`
	Role            string          `db:"role"`
	BattingStyle    string          `db:"batting_style"`
	BowlingStyle    string          `db:"bowling_style"`
	Nationality     string          `db:"nationality"`
	BornOn          *time.Time      `db:"born_on"`
	ImageURL        string          `db:"image_url"`
	Credits         decimal.Decimal `db:"credits"`
	Points          decimal.Decimal `db:"points"`
	SelectedByPct   decimal.Decimal `db:"selected_by_pct"`
	PlayedLastMatch bool            `db:"played_last_match"`
	Metadata        []byte          `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

type playerInsertModel struct {
	ExternalID   int64      `db:"external_id"`
	Name         string     `db:"name"`
	Role         string     `db:"role"`
	BattingStyle string     `db:"batting_style"`
	BowlingStyle string     `db:"bowling_style"`
	Nationality  string     `db:"nationality"`
	BornOn       *time.Time `db:"born_on"`
	ImageURL     string     `db:"image_url"`
	Metadata     []byte     `db:"metadata"`
}

func playerFromRow(row playerTableModel) player.Player {
	out := player.Player{
		ID:              row.ID,
		ExternalID:      row.ExternalID,
		Name:            row.Name,
		Role:            row.Role,
		BattingStyle:    row.BattingStyle,
		BowlingStyle:    row.BowlingStyle,
		Nationality:     row.Nationality,
		BornOn:          row.BornOn,
		ImageURL:        row.ImageURL,
		Credits:         row.Credits,
		Points:          row.Points,
		SelectedByPct:   row.SelectedByPct,
		PlayedLastMatch: row.PlayedLastMatch,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if len(row.Metadata) > 0 {
		_ = sonic.Unmarshal(row.Metadata, &out.Metadata)
	}
	return out
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert writes the synced identity columns. The rating columns belong to the
// recompute pass and are left untouched on conflict.
func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (player.Player, error) {
	insertModel := playerInsertModel{
		ExternalID:   p.ExternalID,
		Name:         p.Name,
		Role:         p.Role,
		BattingStyle: p.BattingStyle,
		BowlingStyle: p.BowlingStyle,
		Nationality:  p.Nationality,
		BornOn:       p.BornOn,
		ImageURL:     p.ImageURL,
		Metadata:     marshalMetadata(p.Metadata),
	}

	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    name = EXCLUDED.name,
    role = EXCLUDED.role,
    batting_style = EXCLUDED.batting_style,
    bowling_style = EXCLUDED.bowling_style,
    nationality = EXCLUDED.nationality,
    born_on = EXCLUDED.born_on,
    image_url = EXCLUDED.image_url,
    metadata = EXCLUDED.metadata,
    updated_at = NOW()
RETURNING id, credits, points, selected_by_pct, played_last_match, created_at, updated_at`)
	if err != nil {
		return player.Player{}, fmt.Errorf("build player upsert query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&p.ID, &p.Credits, &p.Points, &p.SelectedByPct, &p.PlayedLastMatch, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return player.Player{}, fmt.Errorf("upsert player: %w", err)
	}
	return p, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *PlayerRepository) getOne(ctx context.Context, cond qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").Where(cond).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) MapExternalIDs(ctx context.Context, externalIDs []int64) (map[int64]int64, error) {
	if len(externalIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := qb.Select("id", "external_id").From("players").
		Where(qb.Expr("external_id = ANY(?)", pq.Array(externalIDs))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build map player ids query: %w", err)
	}

	var rows []struct {
		ID         int64 `db:"id"`
		ExternalID int64 `db:"external_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("map player ids: %w", err)
	}

	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.ExternalID] = row.ID
	}
	return out, nil
}

func (r *PlayerRepository) ListByTeamSeason(ctx context.Context, teamID int64, season string) ([]player.Player, error) {
	query, args, err := qb.Select("p.*").From("players p").
		Where(
			qb.Expr("p.id IN (SELECT player_id FROM squad_memberships WHERE team_id = ? AND season = ?)", teamID, season),
		).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list squad query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list squad: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) ListIDs(ctx context.Context) ([]int64, error) {
	query, _, err := qb.Select("id").From("players").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player ids query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list player ids: %w", err)
	}
	return ids, nil
}

func (r *PlayerRepository) EnsureMembership(ctx context.Context, m player.Membership) error {
	query, args, err := qb.InsertInto("squad_memberships").
		Columns("player_id", "team_id", "season").
		Values(m.PlayerID, m.TeamID, m.Season).
		Suffix("ON CONFLICT (player_id, team_id, season) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build membership insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ensure membership: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpdateRating(ctx context.Context, id int64, credits, points, selectedByPct decimal.Decimal, playedLastMatch bool) error {
	query, args, err := qb.Update("players").
		Set("credits", credits).
		Set("points", points).
		Set("selected_by_pct", selectedByPct).
		Set("played_last_match", playedLastMatch).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build rating update query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player rating: %w", err)
	}
	return nil
}
