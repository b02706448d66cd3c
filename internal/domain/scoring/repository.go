package scoring

import "context"

type Repository interface {
	// GetRules loads the stored rule table, falling back to DefaultRules for
	// any rule without an override row.
	GetRules(ctx context.Context) (RuleSet, error)
	SaveRule(ctx context.Context, rule Rule, value string) error
}
