package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type matchTableModel struct {
	ID           int64      `db:"id"`
	ExternalID   int64      `db:"external_id"`
	TournamentID int64      `db:"tournament_id"`
	HomeTeamID   int64      `db:"home_team_id"`
	AwayTeamID   int64      `db:"away_team_id"`
	Title        string     `db:"title"`
	Format       string     `db:"format"`
	Venue        string     `db:"venue"`
	Status       string     `db:"status"`
	StartsAt     time.Time  `db:"starts_at"`
	EndsAt       *time.Time `db:"ends_at"`
	Scorecard    []byte     `db:"scorecard"`
	Metadata     []byte     `db:"metadata"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type matchInsertModel struct {
	ExternalID   int64     `db:"external_id"`
	TournamentID int64     `db:"tournament_id"`
	HomeTeamID   int64     `db:"home_team_id"`
	AwayTeamID   int64     `db:"away_team_id"`
	Title        string    `db:"title"`
	Format       string    `db:"format"`
	Venue        string    `db:"venue"`
	Status       string    `db:"status"`
	StartsAt     time.Time `db:"starts_at"`
	Metadata     []byte    `db:"metadata"`
}

func matchFromRow(row matchTableModel) match.Match {
	out := match.Match{
		ID:           row.ID,
		ExternalID:   row.ExternalID,
		TournamentID: row.TournamentID,
		HomeTeamID:   row.HomeTeamID,
		AwayTeamID:   row.AwayTeamID,
		Title:        row.Title,
		Format:       row.Format,
		Venue:        row.Venue,
		Status:       match.Status(row.Status),
		StartsAt:     row.StartsAt,
		EndsAt:       row.EndsAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.Scorecard) > 0 {
		var card match.Scorecard
		if err := sonic.Unmarshal(row.Scorecard, &card); err == nil {
			out.Scorecard = &card
		}
	}
	if len(row.Metadata) > 0 {
		_ = sonic.Unmarshal(row.Metadata, &out.Metadata)
	}
	return out
}

func marshalScorecard(card *match.Scorecard) []byte {
	if card == nil {
		return nil
	}
	raw, err := sonic.Marshal(card)
	if err != nil {
		return nil
	}
	return raw
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert refreshes the fixture columns. Status, ends_at and the scorecard
// are owned by the lifecycle path and survive conflicts untouched.
func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) (match.Match, error) {
	insertModel := matchInsertModel{
		ExternalID:   m.ExternalID,
		TournamentID: m.TournamentID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		Title:        m.Title,
		Format:       m.Format,
		Venue:        m.Venue,
		Status:       string(m.Status),
		StartsAt:     m.StartsAt,
		Metadata:     marshalMetadata(m.Metadata),
	}

	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    tournament_id = EXCLUDED.tournament_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    title = EXCLUDED.title,
    format = EXCLUDED.format,
    venue = EXCLUDED.venue,
    starts_at = EXCLUDED.starts_at,
    metadata = EXCLUDED.metadata,
    updated_at = NOW()
RETURNING id, status, ends_at, scorecard, created_at, updated_at`)
	if err != nil {
		return match.Match{}, fmt.Errorf("build match upsert query: %w", err)
	}

	var (
		status string
		card   []byte
	)
	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&m.ID, &status, &m.EndsAt, &card, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return match.Match{}, fmt.Errorf("upsert match: %w", err)
	}
	m.Status = match.Status(status)
	m.Scorecard = nil
	if len(card) > 0 {
		var stored match.Scorecard
		if err := sonic.Unmarshal(card, &stored); err == nil {
			m.Scorecard = &stored
		}
	}
	return m, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID int64) (match.Match, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *MatchRepository) getOne(ctx context.Context, cond qb.Condition) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(cond).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListWindow(ctx context.Context, from, to time.Time, statuses []match.Status) ([]match.Match, error) {
	conditions := []qb.Condition{
		qb.Gte("starts_at", from),
		qb.Expr("starts_at < ?", to),
	}
	if len(statuses) > 0 {
		values := make([]any, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		conditions = append(conditions, qb.In("status", values))
	}

	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("starts_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build match window query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match window: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) LastFinishedByTeam(ctx context.Context, teamID int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", string(match.StatusFinished)),
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
		).
		OrderBy("starts_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build last finished match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get last finished match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID int64, limit, offset int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("starts_at", "id").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build tournament matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournament matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) UpdateState(ctx context.Context, id int64, status match.Status, endsAt *time.Time, card *match.Scorecard) error {
	builder := qb.Update("matches").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()")
	if endsAt != nil {
		builder.Set("ends_at", *endsAt)
	}
	if card != nil {
		builder.Set("scorecard", marshalScorecard(card))
	}

	query, args, err := builder.Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build match state query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match state: %w", err)
	}
	return nil
}
