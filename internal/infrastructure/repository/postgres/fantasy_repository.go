package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type fantasyTeamTableModel struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	MatchID   int64           `db:"match_id"`
	Name      string          `db:"name"`
	Points    decimal.Decimal `db:"points"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

type fantasyPickTableModel struct {
	TeamID        int64           `db:"team_id"`
	PlayerID      int64           `db:"player_id"`
	IsCaptain     bool            `db:"is_captain"`
	IsViceCaptain bool            `db:"is_vice_captain"`
	IsSubstitute  bool            `db:"is_substitute"`
	Points        decimal.Decimal `db:"points"`
}

type FantasyTeamRepository struct {
	db *sqlx.DB
}

func NewFantasyTeamRepository(db *sqlx.DB) *FantasyTeamRepository {
	return &FantasyTeamRepository{db: db}
}

// Save upserts the user's lineup for the match and replaces its picks in the
// same transaction.
func (r *FantasyTeamRepository) Save(ctx context.Context, t fantasy.Team) (fantasy.Team, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("begin fantasy team tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.InsertInto("fantasy_teams").
		Columns("user_id", "match_id", "name").
		Values(t.UserID, t.MatchID, t.Name).
		Suffix(`ON CONFLICT (user_id, match_id)
DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
RETURNING id, points, created_at, updated_at`).
		ToSQL()
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("build fantasy team upsert query: %w", err)
	}
	row := tx.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&t.ID, &t.Points, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fantasy.Team{}, fmt.Errorf("upsert fantasy team: %w", err)
	}

	if err := r.replacePicks(ctx, tx, t.ID, t.Picks); err != nil {
		return fantasy.Team{}, err
	}

	if err := tx.Commit(); err != nil {
		return fantasy.Team{}, fmt.Errorf("commit fantasy team tx: %w", err)
	}
	return t, nil
}

func (r *FantasyTeamRepository) replacePicks(ctx context.Context, tx *sqlx.Tx, teamID int64, picks []fantasy.Pick) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM fantasy_team_picks WHERE team_id = $1", teamID); err != nil {
		return fmt.Errorf("clear fantasy picks: %w", err)
	}
	if len(picks) == 0 {
		return nil
	}

	builder := qb.InsertInto("fantasy_team_picks").
		Columns("team_id", "player_id", "is_captain", "is_vice_captain", "is_substitute", "points")
	for _, pick := range picks {
		builder.Values(teamID, pick.PlayerID, pick.IsCaptain, pick.IsViceCaptain, pick.IsSubstitute, pick.Points)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build fantasy picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fantasy picks: %w", err)
	}
	return nil
}

func (r *FantasyTeamRepository) GetByID(ctx context.Context, id int64) (fantasy.Team, bool, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fantasy.Team{}, false, fmt.Errorf("build get fantasy team query: %w", err)
	}

	var row fantasyTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasy.Team{}, false, nil
		}
		return fantasy.Team{}, false, fmt.Errorf("get fantasy team: %w", err)
	}

	teams, err := r.attachPicks(ctx, []fantasyTeamTableModel{row})
	if err != nil {
		return fantasy.Team{}, false, err
	}
	return teams[0], true, nil
}

func (r *FantasyTeamRepository) ListByUserAndMatch(ctx context.Context, userID, matchID int64) ([]fantasy.Team, error) {
	return r.listWhere(ctx, qb.Eq("user_id", userID), qb.Eq("match_id", matchID))
}

func (r *FantasyTeamRepository) ListByUser(ctx context.Context, userID int64) ([]fantasy.Team, error) {
	return r.listWhere(ctx, qb.Eq("user_id", userID))
}

func (r *FantasyTeamRepository) ListByMatch(ctx context.Context, matchID int64) ([]fantasy.Team, error) {
	return r.listWhere(ctx, qb.Eq("match_id", matchID))
}

func (r *FantasyTeamRepository) listWhere(ctx context.Context, conditions ...qb.Condition) ([]fantasy.Team, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fantasy teams query: %w", err)
	}

	var rows []fantasyTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fantasy teams: %w", err)
	}
	return r.attachPicks(ctx, rows)
}

func (r *FantasyTeamRepository) attachPicks(ctx context.Context, rows []fantasyTeamTableModel) ([]fantasy.Team, error) {
	out := make([]fantasy.Team, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	teamIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		teamIDs = append(teamIDs, row.ID)
	}

	query, args, err := qb.Select("*").From("fantasy_team_picks").
		Where(qb.In("team_id", teamIDs)).
		OrderBy("team_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var pickRows []fantasyPickTableModel
	if err := r.db.SelectContext(ctx, &pickRows, query, args...); err != nil {
		return nil, fmt.Errorf("list fantasy picks: %w", err)
	}

	picksByTeam := make(map[int64][]fantasy.Pick, len(rows))
	for _, pick := range pickRows {
		picksByTeam[pick.TeamID] = append(picksByTeam[pick.TeamID], fantasy.Pick{
			PlayerID:      pick.PlayerID,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
			IsSubstitute:  pick.IsSubstitute,
			Points:        pick.Points,
		})
	}

	for _, row := range rows {
		out = append(out, fantasy.Team{
			ID:        row.ID,
			UserID:    row.UserID,
			MatchID:   row.MatchID,
			Name:      row.Name,
			Picks:     picksByTeam[row.ID],
			Points:    row.Points,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *FantasyTeamRepository) UpdatePoints(ctx context.Context, t fantasy.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin points tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Update("fantasy_teams").
		Set("points", t.Points).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build team points query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team points: %w", err)
	}

	for _, pick := range t.Picks {
		query, args, err := qb.Update("fantasy_team_picks").
			Set("points", pick.Points).
			Where(qb.Eq("team_id", t.ID), qb.Eq("player_id", pick.PlayerID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build pick points query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update pick points: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit points tx: %w", err)
	}
	return nil
}
