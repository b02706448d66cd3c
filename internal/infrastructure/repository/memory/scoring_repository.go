package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
)

type ScoringRepository struct {
	mu        sync.RWMutex
	overrides map[scoring.Rule]decimal.Decimal
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{overrides: make(map[scoring.Rule]decimal.Decimal)}
}

func (r *ScoringRepository) GetRules(_ context.Context) (scoring.RuleSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := scoring.DefaultRules()
	for rule, value := range r.overrides {
		rules[rule] = value
	}
	return rules, nil
}

func (r *ScoringRepository) SaveRule(_ context.Context, rule scoring.Rule, value string) error {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[rule] = parsed
	return nil
}
