package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
	"github.com/ovrplay/fantasy-cricket/internal/platform/cache"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

const scoringRulesCacheKey = "scoring:rules"

// ScoringService exposes the rule table to the back office.
type ScoringService struct {
	repo   scoring.Repository
	cache  *cache.Store
	logger *logging.Logger
}

func NewScoringService(repo scoring.Repository, logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{repo: repo, logger: logger}
}

// WithCache caches the rule table between reads; UpdateRule invalidates it.
func (s *ScoringService) WithCache(store *cache.Store) *ScoringService {
	s.cache = store
	return s
}

func (s *ScoringService) Rules(ctx context.Context) (scoring.RuleSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Rules")
	defer span.End()

	if s.cache == nil {
		return s.repo.GetRules(ctx)
	}
	value, err := s.cache.GetOrLoad(ctx, scoringRulesCacheKey, func(ctx context.Context) (any, error) {
		return s.repo.GetRules(ctx)
	})
	if err != nil {
		return nil, err
	}
	rules, ok := value.(scoring.RuleSet)
	if !ok {
		return s.repo.GetRules(ctx)
	}
	return rules, nil
}

// UpdateRule overrides one rule's point value. Only rules from the known
// table are accepted.
func (s *ScoringService) UpdateRule(ctx context.Context, name, value string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.UpdateRule")
	defer span.End()

	rule := scoring.Rule(strings.TrimSpace(name))
	if _, known := scoring.DefaultRules()[rule]; !known {
		return fmt.Errorf("%w: unknown scoring rule %q", ErrInvalidInput, name)
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%w: rule value %q is not a number", ErrInvalidInput, value)
	}

	if err := s.repo.SaveRule(ctx, rule, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("save scoring rule %s: %w", rule, err)
	}
	if s.cache != nil {
		s.cache.Delete(ctx, scoringRulesCacheKey)
	}
	s.logger.InfoContext(ctx, "scoring rule updated", "rule", string(rule), "value", value)
	return nil
}
