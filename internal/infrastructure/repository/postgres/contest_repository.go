package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/contest"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type contestTableModel struct {
	ID                int64           `db:"id"`
	MatchID           int64           `db:"match_id"`
	Name              string          `db:"name"`
	Type              string          `db:"type"`
	EntryFee          decimal.Decimal `db:"entry_fee"`
	PrizePool         decimal.Decimal `db:"prize_pool"`
	CommissionPct     decimal.Decimal `db:"commission_pct"`
	TotalSpots        int             `db:"total_spots"`
	FilledSpots       int             `db:"filled_spots"`
	MaxEntriesPerUser int             `db:"max_entries_per_user"`
	Winnings          []byte          `db:"winnings"`
	Status            string          `db:"status"`
	StartsAt          *time.Time      `db:"starts_at"`
	EndsAt            *time.Time      `db:"ends_at"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

type contestEntryTableModel struct {
	ID            int64           `db:"id"`
	ContestID     int64           `db:"contest_id"`
	UserID        int64           `db:"user_id"`
	FantasyTeamID int64           `db:"fantasy_team_id"`
	Points        decimal.Decimal `db:"points"`
	Rank          int             `db:"rank"`
	CreatedAt     time.Time       `db:"created_at"`
}

func contestFromRow(row contestTableModel) (contest.Contest, error) {
	out := contest.Contest{
		ID:                row.ID,
		MatchID:           row.MatchID,
		Name:              row.Name,
		Type:              row.Type,
		EntryFee:          row.EntryFee,
		PrizePool:         row.PrizePool,
		CommissionPct:     row.CommissionPct,
		TotalSpots:        row.TotalSpots,
		FilledSpots:       row.FilledSpots,
		MaxEntriesPerUser: row.MaxEntriesPerUser,
		Status:            row.Status,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.StartsAt != nil {
		out.StartsAt = *row.StartsAt
	}
	if row.EndsAt != nil {
		out.EndsAt = *row.EndsAt
	}
	if len(row.Winnings) > 0 {
		if err := sonic.Unmarshal(row.Winnings, &out.Winnings); err != nil {
			return contest.Contest{}, fmt.Errorf("decode contest winnings: %w", err)
		}
	}
	return out, nil
}

func entryFromRow(row contestEntryTableModel) contest.Entry {
	return contest.Entry{
		ID:            row.ID,
		ContestID:     row.ContestID,
		UserID:        row.UserID,
		FantasyTeamID: row.FantasyTeamID,
		Points:        row.Points,
		Rank:          row.Rank,
		CreatedAt:     row.CreatedAt,
	}
}

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) Create(ctx context.Context, c contest.Contest) (contest.Contest, error) {
	winnings, err := sonic.Marshal(c.Winnings)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("encode contest winnings: %w", err)
	}

	query, args, err := qb.InsertInto("contests").
		Columns("match_id", "name", "type", "entry_fee", "prize_pool", "commission_pct",
			"total_spots", "filled_spots", "max_entries_per_user", "winnings", "status",
			"starts_at", "ends_at").
		Values(c.MatchID, c.Name, c.Type, c.EntryFee, c.PrizePool, c.CommissionPct,
			c.TotalSpots, c.FilledSpots, c.MaxEntriesPerUser, winnings, c.Status,
			nullableTime(c.StartsAt), nullableTime(c.EndsAt)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return contest.Contest{}, fmt.Errorf("build contest insert query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}
	return c, nil
}

func (r *ContestRepository) Update(ctx context.Context, c contest.Contest) error {
	winnings, err := sonic.Marshal(c.Winnings)
	if err != nil {
		return fmt.Errorf("encode contest winnings: %w", err)
	}

	query, args, err := qb.Update("contests").
		Set("name", c.Name).
		Set("type", c.Type).
		Set("entry_fee", c.EntryFee).
		Set("prize_pool", c.PrizePool).
		Set("commission_pct", c.CommissionPct).
		Set("total_spots", c.TotalSpots).
		Set("max_entries_per_user", c.MaxEntriesPerUser).
		Set("winnings", winnings).
		Set("status", c.Status).
		Set("starts_at", nullableTime(c.StartsAt)).
		Set("ends_at", nullableTime(c.EndsAt)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", c.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build contest update query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update contest: %w", err)
	}
	return nil
}

func (r *ContestRepository) GetByID(ctx context.Context, id int64) (contest.Contest, bool, error) {
	query, args, err := qb.Select("*").From("contests").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return contest.Contest{}, false, fmt.Errorf("build get contest query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Contest{}, false, nil
		}
		return contest.Contest{}, false, fmt.Errorf("get contest: %w", err)
	}

	out, err := contestFromRow(row)
	if err != nil {
		return contest.Contest{}, false, err
	}
	return out, true, nil
}

func (r *ContestRepository) ListByMatch(ctx context.Context, matchID int64, status string) ([]contest.Contest, error) {
	conditions := []qb.Condition{
		qb.Eq("match_id", matchID),
		qb.Neq("status", contest.StatusDeleted),
	}
	if status != "" {
		conditions = append(conditions, qb.Eq("status", status))
	}

	query, args, err := qb.Select("*").From("contests").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list contests query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}

	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		c, err := contestFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ContestRepository) SoftDelete(ctx context.Context, id int64) error {
	query, args, err := qb.Update("contests").
		Set("status", contest.StatusDeleted).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build contest delete query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete contest: %w", err)
	}
	return nil
}

// AddEntry claims a spot with a guarded filled-spot bump and inserts the
// entry in the same transaction, so two racing joins never oversell the
// last spot.
func (r *ContestRepository) AddEntry(ctx context.Context, e contest.Entry) (contest.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("begin entry tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE contests SET filled_spots = filled_spots + 1, updated_at = NOW()
WHERE id = $1 AND filled_spots < total_spots`,
		e.ContestID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("claim contest spot: %w", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return contest.Entry{}, fmt.Errorf("claim contest spot: %w", err)
	}
	if claimed == 0 {
		return contest.Entry{}, contest.ErrNoSpots
	}

	query, args, err := qb.InsertInto("contest_entries").
		Columns("contest_id", "user_id", "fantasy_team_id", "points", "rank").
		Values(e.ContestID, e.UserID, e.FantasyTeamID, e.Points, e.Rank).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return contest.Entry{}, fmt.Errorf("build entry insert query: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return contest.Entry{}, fmt.Errorf("insert contest entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return contest.Entry{}, fmt.Errorf("commit entry tx: %w", err)
	}
	return e, nil
}

func (r *ContestRepository) CountEntriesByUser(ctx context.Context, contestID, userID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("contest_entries").
		Where(qb.Eq("contest_id", contestID), qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count entries query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count contest entries: %w", err)
	}
	return count, nil
}

func (r *ContestRepository) ListEntries(ctx context.Context, contestID int64) ([]contest.Entry, error) {
	query, args, err := qb.Select("*").From("contest_entries").
		Where(qb.Eq("contest_id", contestID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []contestEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list contest entries: %w", err)
	}

	out := make([]contest.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}
	return out, nil
}

func (r *ContestRepository) UpdateEntryRanks(ctx context.Context, entries []contest.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ranks tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range entries {
		query, args, err := qb.Update("contest_entries").
			Set("points", e.Points).
			Set("rank", e.Rank).
			Where(qb.Eq("id", e.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build entry rank query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update entry rank: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ranks tx: %w", err)
	}
	return nil
}
