package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
)

func TestScoringService_UpdateRule(t *testing.T) {
	t.Parallel()

	service := NewScoringService(memory.NewScoringRepository(), nil)
	ctx := context.Background()

	if err := service.UpdateRule(ctx, "wicket", "30"); err != nil {
		t.Fatalf("UpdateRule error: %v", err)
	}

	rules, err := service.Rules(ctx)
	if err != nil {
		t.Fatalf("Rules error: %v", err)
	}
	if !rules.Value(scoring.RuleWicket).Equal(pts("30")) {
		t.Fatalf("override not applied: got=%s want=30", rules.Value(scoring.RuleWicket))
	}
	// Untouched rules keep their defaults.
	if !rules.Value(scoring.RuleRun).Equal(pts("1")) {
		t.Fatalf("default rule disturbed: got=%s want=1", rules.Value(scoring.RuleRun))
	}
}

func TestScoringService_UpdateRule_Rejections(t *testing.T) {
	t.Parallel()

	service := NewScoringService(memory.NewScoringRepository(), nil)
	ctx := context.Background()

	if err := service.UpdateRule(ctx, "free_hit_bonus", "5"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for an unknown rule, got: %v", err)
	}
	if err := service.UpdateRule(ctx, "wicket", "lots"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for a non-numeric value, got: %v", err)
	}
}
