package scoring

import "github.com/shopspring/decimal"

// Rule names the scoring events the platform awards points for. Values are
// stored per rule so operators can retune them without a deploy.
type Rule string

const (
	RuleRun             Rule = "run"
	RuleFourBonus       Rule = "four_bonus"
	RuleSixBonus        Rule = "six_bonus"
	RuleHalfCentury     Rule = "half_century_bonus"
	RuleCentury         Rule = "century_bonus"
	RuleDuck            Rule = "duck_penalty"
	RuleWicket          Rule = "wicket"
	RuleMaiden          Rule = "maiden_over"
	RuleDotBallPair     Rule = "dot_ball_pair"
	RuleFourWicketHaul  Rule = "four_wicket_bonus"
	RuleFiveWicketHaul  Rule = "five_wicket_bonus"
	RuleCatch           Rule = "catch"
	RuleStumping        Rule = "stumping"
	RuleDirectRunOut    Rule = "direct_run_out"
	RuleAssistedRunOut  Rule = "assisted_run_out"
	RulePlayingEleven   Rule = "playing_eleven"
	RuleEconomyUnder4   Rule = "economy_under_4"
	RuleEconomyUnder5   Rule = "economy_under_5"
	RuleEconomyOver9    Rule = "economy_over_9"
	RuleEconomyOver10   Rule = "economy_over_10"
	RuleStrikeRateOver150 Rule = "strike_rate_over_150"
	RuleStrikeRateUnder70 Rule = "strike_rate_under_70"
)

// RuleSet maps every rule to its point value. Missing rules score zero.
type RuleSet map[Rule]decimal.Decimal

func (rs RuleSet) Value(r Rule) decimal.Decimal {
	if v, ok := rs[r]; ok {
		return v
	}
	return decimal.Zero
}

var (
	// CaptainMultiplier doubles the captain's points; ViceCaptainMultiplier
	// awards the vice captain one and a half times theirs.
	CaptainMultiplier     = decimal.NewFromInt(2)
	ViceCaptainMultiplier = decimal.RequireFromString("1.5")
)

// DefaultRules is the seed table applied when no operator overrides exist.
func DefaultRules() RuleSet {
	pts := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	return RuleSet{
		RuleRun:               pts("1"),
		RuleFourBonus:         pts("1"),
		RuleSixBonus:          pts("2"),
		RuleHalfCentury:       pts("8"),
		RuleCentury:           pts("16"),
		RuleDuck:              pts("-2"),
		RuleWicket:            pts("25"),
		RuleMaiden:            pts("12"),
		RuleDotBallPair:       pts("1"),
		RuleFourWicketHaul:    pts("8"),
		RuleFiveWicketHaul:    pts("16"),
		RuleCatch:             pts("8"),
		RuleStumping:          pts("12"),
		RuleDirectRunOut:      pts("12"),
		RuleAssistedRunOut:    pts("6"),
		RulePlayingEleven:     pts("4"),
		RuleEconomyUnder4:     pts("6"),
		RuleEconomyUnder5:     pts("4"),
		RuleEconomyOver9:      pts("-4"),
		RuleEconomyOver10:     pts("-6"),
		RuleStrikeRateOver150: pts("6"),
		RuleStrikeRateUnder70: pts("-4"),
	}
}
