package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
	scoringmock "github.com/ovrplay/fantasy-cricket/internal/mocks/domain/scoring"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

func TestScoringService_Rules_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := scoringmock.NewRepository(t)
	service := NewScoringService(repo, logging.NewNop())

	stored := scoring.DefaultRules()
	stored[scoring.RuleWicket] = decimal.NewFromInt(30)

	repo.
		On("GetRules", mock.Anything).
		Return(stored, nil).
		Once()

	got, err := service.Rules(ctx)
	if err != nil {
		t.Fatalf("load scoring rules: %v", err)
	}
	if !got[scoring.RuleWicket].Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected wicket value: %s", got[scoring.RuleWicket])
	}
}

func TestScoringService_UpdateRule_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := scoringmock.NewRepository(t)
	service := NewScoringService(repo, logging.NewNop())

	repo.
		On("SaveRule", mock.Anything, scoring.RuleSixBonus, "3").
		Return(nil).
		Once()

	if err := service.UpdateRule(ctx, "six_bonus", " 3 "); err != nil {
		t.Fatalf("update scoring rule: %v", err)
	}
}

func TestScoringService_UpdateRule_UnknownRuleUsingMockery(t *testing.T) {
	t.Parallel()

	repo := scoringmock.NewRepository(t)
	service := NewScoringService(repo, logging.NewNop())

	err := service.UpdateRule(context.Background(), "quadruple_wicket", "10")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	repo.AssertNotCalled(t, "SaveRule", mock.Anything, mock.Anything, mock.Anything)
}
