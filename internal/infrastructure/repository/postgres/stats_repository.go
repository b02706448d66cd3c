package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type statTableModel struct {
	ID       int64 `db:"id"`
	MatchID  int64 `db:"match_id"`
	PlayerID int64 `db:"player_id"`
	TeamID   int64 `db:"team_id"`

	BatRuns      int    `db:"bat_runs"`
	BatBalls     int    `db:"bat_balls"`
	BatFours     int    `db:"bat_fours"`
	BatSixes     int    `db:"bat_sixes"`
	BatDismissal string `db:"bat_dismissal"`
	BatNotOut    bool   `db:"bat_not_out"`

	BowlBalls    int `db:"bowl_balls"`
	BowlMaidens  int `db:"bowl_maidens"`
	BowlRuns     int `db:"bowl_runs"`
	BowlWickets  int `db:"bowl_wickets"`
	BowlWides    int `db:"bowl_wides"`
	BowlNoBalls  int `db:"bowl_no_balls"`
	BowlDots     int `db:"bowl_dots"`
	BowlDotPairs int `db:"bowl_dot_pairs"`

	FieldCatches       int `db:"field_catches"`
	FieldRunOuts       int `db:"field_run_outs"`
	FieldDirectRunOuts int `db:"field_direct_run_outs"`
	FieldStumpings     int `db:"field_stumpings"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func statFromRow(row statTableModel) stats.PlayerMatchStat {
	return stats.PlayerMatchStat{
		ID:       row.ID,
		MatchID:  row.MatchID,
		PlayerID: row.PlayerID,
		TeamID:   row.TeamID,
		Batting: stats.Batting{
			Runs:       row.BatRuns,
			BallsFaced: row.BatBalls,
			Fours:      row.BatFours,
			Sixes:      row.BatSixes,
			Dismissal:  row.BatDismissal,
			NotOut:     row.BatNotOut,
		},
		Bowling: stats.Bowling{
			BallsBowled:  row.BowlBalls,
			Maidens:      row.BowlMaidens,
			RunsConceded: row.BowlRuns,
			Wickets:      row.BowlWickets,
			Wides:        row.BowlWides,
			NoBalls:      row.BowlNoBalls,
			DotBalls:     row.BowlDots,
			DotBallPairs: row.BowlDotPairs,
		},
		Fielding: stats.Fielding{
			Catches:       row.FieldCatches,
			RunOuts:       row.FieldRunOuts,
			DirectRunOuts: row.FieldDirectRunOuts,
			Stumpings:     row.FieldStumpings,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// StatsRepository executes against either the pool or, inside InTx, one
// transaction.
type StatsRepository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db, ext: db}
}

// InTx runs fn against a transaction-scoped repository, so a whole scoreboard
// lands atomically. Nested calls reuse the surrounding transaction.
func (r *StatsRepository) InTx(ctx context.Context, fn func(stats.Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stats tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&StatsRepository{ext: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stats tx: %w", err)
	}
	return nil
}

func (r *StatsRepository) GetByMatchAndPlayer(ctx context.Context, matchID, playerID int64) (stats.PlayerMatchStat, bool, error) {
	query, args, err := qb.Select("*").From("player_match_stats").
		Where(qb.Eq("match_id", matchID), qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return stats.PlayerMatchStat{}, false, fmt.Errorf("build get stat query: %w", err)
	}

	var row statTableModel
	if err := sqlx.GetContext(ctx, r.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.PlayerMatchStat{}, false, nil
		}
		return stats.PlayerMatchStat{}, false, fmt.Errorf("get stat: %w", err)
	}
	return statFromRow(row), true, nil
}

func (r *StatsRepository) ListByMatch(ctx context.Context, matchID int64) ([]stats.PlayerMatchStat, error) {
	query, args, err := qb.Select("*").From("player_match_stats").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match stats query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *StatsRepository) ListRecentByPlayer(ctx context.Context, playerID int64, limit int) ([]stats.PlayerMatchStat, error) {
	query, args, err := qb.Select("*").From("player_match_stats").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("updated_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build recent stats query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *StatsRepository) list(ctx context.Context, query string, args []any) ([]stats.PlayerMatchStat, error) {
	var rows []statTableModel
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}

	out := make([]stats.PlayerMatchStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, statFromRow(row))
	}
	return out, nil
}

// UpsertBatting writes only the batting columns; a conflict leaves the other
// disciplines at their stored values.
func (r *StatsRepository) UpsertBatting(ctx context.Context, matchID, playerID, teamID int64, line stats.Batting) error {
	query, args, err := qb.InsertInto("player_match_stats").
		Columns("match_id", "player_id", "team_id",
			"bat_runs", "bat_balls", "bat_fours", "bat_sixes", "bat_dismissal", "bat_not_out").
		Values(matchID, playerID, teamID,
			line.Runs, line.BallsFaced, line.Fours, line.Sixes, line.Dismissal, line.NotOut).
		Suffix(`ON CONFLICT (match_id, player_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    bat_runs = EXCLUDED.bat_runs,
    bat_balls = EXCLUDED.bat_balls,
    bat_fours = EXCLUDED.bat_fours,
    bat_sixes = EXCLUDED.bat_sixes,
    bat_dismissal = EXCLUDED.bat_dismissal,
    bat_not_out = EXCLUDED.bat_not_out,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build batting upsert query: %w", err)
	}

	if _, err := r.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert batting: %w", err)
	}
	return nil
}

func (r *StatsRepository) UpsertBowling(ctx context.Context, matchID, playerID, teamID int64, line stats.Bowling) error {
	query, args, err := qb.InsertInto("player_match_stats").
		Columns("match_id", "player_id", "team_id",
			"bowl_balls", "bowl_maidens", "bowl_runs", "bowl_wickets",
			"bowl_wides", "bowl_no_balls", "bowl_dots", "bowl_dot_pairs").
		Values(matchID, playerID, teamID,
			line.BallsBowled, line.Maidens, line.RunsConceded, line.Wickets,
			line.Wides, line.NoBalls, line.DotBalls, line.DotBallPairs).
		Suffix(`ON CONFLICT (match_id, player_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    bowl_balls = EXCLUDED.bowl_balls,
    bowl_maidens = EXCLUDED.bowl_maidens,
    bowl_runs = EXCLUDED.bowl_runs,
    bowl_wickets = EXCLUDED.bowl_wickets,
    bowl_wides = EXCLUDED.bowl_wides,
    bowl_no_balls = EXCLUDED.bowl_no_balls,
    bowl_dots = EXCLUDED.bowl_dots,
    bowl_dot_pairs = EXCLUDED.bowl_dot_pairs,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build bowling upsert query: %w", err)
	}

	if _, err := r.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert bowling: %w", err)
	}
	return nil
}

func (r *StatsRepository) UpsertFielding(ctx context.Context, matchID, playerID, teamID int64, line stats.Fielding) error {
	query, args, err := qb.InsertInto("player_match_stats").
		Columns("match_id", "player_id", "team_id",
			"field_catches", "field_run_outs", "field_direct_run_outs", "field_stumpings").
		Values(matchID, playerID, teamID,
			line.Catches, line.RunOuts, line.DirectRunOuts, line.Stumpings).
		Suffix(`ON CONFLICT (match_id, player_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    field_catches = EXCLUDED.field_catches,
    field_run_outs = EXCLUDED.field_run_outs,
    field_direct_run_outs = EXCLUDED.field_direct_run_outs,
    field_stumpings = EXCLUDED.field_stumpings,
    updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build fielding upsert query: %w", err)
	}

	if _, err := r.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fielding: %w", err)
	}
	return nil
}

type lineupTableModel struct {
	MatchID   int64  `db:"match_id"`
	PlayerID  int64  `db:"player_id"`
	TeamID    int64  `db:"team_id"`
	Status    string `db:"status"`
	IsCaptain bool   `db:"is_captain"`
	IsKeeper  bool   `db:"is_keeper"`
}

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

// ReplaceLineup swaps the announced lineup wholesale inside one transaction,
// since providers re-publish the full list on every change.
func (r *LineupRepository) ReplaceLineup(ctx context.Context, matchID int64, entries []stats.LineupEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lineup tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM match_lineups WHERE match_id = $1", matchID); err != nil {
		return fmt.Errorf("clear lineup: %w", err)
	}

	if len(entries) > 0 {
		builder := qb.InsertInto("match_lineups").
			Columns("match_id", "player_id", "team_id", "status", "is_captain", "is_keeper")
		for _, e := range entries {
			builder.Values(matchID, e.PlayerID, e.TeamID, e.Status, e.IsCaptain, e.IsKeeper)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build lineup insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert lineup: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lineup tx: %w", err)
	}
	return nil
}

func (r *LineupRepository) ListLineup(ctx context.Context, matchID int64) ([]stats.LineupEntry, error) {
	query, args, err := qb.Select("*").From("match_lineups").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("team_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup query: %w", err)
	}

	var rows []lineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineup: %w", err)
	}

	out := make([]stats.LineupEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, stats.LineupEntry{
			MatchID:   row.MatchID,
			PlayerID:  row.PlayerID,
			TeamID:    row.TeamID,
			Status:    row.Status,
			IsCaptain: row.IsCaptain,
			IsKeeper:  row.IsKeeper,
		})
	}
	return out, nil
}
