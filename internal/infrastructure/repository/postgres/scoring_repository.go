package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

// GetRules layers stored overrides over the default table so a partially
// seeded scoring_rules table still yields a complete rule set.
func (r *ScoringRepository) GetRules(ctx context.Context) (scoring.RuleSet, error) {
	query, _, err := qb.Select("rule", "value").From("scoring_rules").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build rules query: %w", err)
	}

	var rows []struct {
		Rule  string `db:"rule"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list scoring rules: %w", err)
	}

	rules := scoring.DefaultRules()
	for _, row := range rows {
		value, err := decimal.NewFromString(row.Value)
		if err != nil {
			return nil, fmt.Errorf("parse rule %s value %q: %w", row.Rule, row.Value, err)
		}
		rules[scoring.Rule(row.Rule)] = value
	}
	return rules, nil
}

func (r *ScoringRepository) SaveRule(ctx context.Context, rule scoring.Rule, value string) error {
	query, args, err := qb.InsertInto("scoring_rules").
		Columns("rule", "value").
		Values(string(rule), value).
		Suffix(`ON CONFLICT (rule)
DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build rule upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save scoring rule: %w", err)
	}
	return nil
}
