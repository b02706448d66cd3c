package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"

	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

// Minimum sample sizes before the banded bonuses apply, to keep a single
// over or a two-ball cameo from swinging points.
const (
	economyMinBalls    = 12
	strikeRateMinBalls = 10
)

// PointsService converts stored match statistics into fantasy points and
// pushes them onto every fantasy team of the match.
type PointsService struct {
	statsRepo   stats.Repository
	lineupRepo  stats.LineupRepository
	scoringRepo scoring.Repository
	fantasyRepo fantasy.Repository
	logger      *logging.Logger
	workers     int
}

func NewPointsService(
	statsRepo stats.Repository,
	lineupRepo stats.LineupRepository,
	scoringRepo scoring.Repository,
	fantasyRepo fantasy.Repository,
	workers int,
	logger *logging.Logger,
) *PointsService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 4
	}

	return &PointsService{
		statsRepo:   statsRepo,
		lineupRepo:  lineupRepo,
		scoringRepo: scoringRepo,
		fantasyRepo: fantasyRepo,
		logger:      logger,
		workers:     workers,
	}
}

// PlayerPoints scores one player's match statistics against the rule table.
func PlayerPoints(rules scoring.RuleSet, stat stats.PlayerMatchStat, inStartingEleven bool) decimal.Decimal {
	total := decimal.Zero
	n := func(v int) decimal.Decimal { return decimal.NewFromInt(int64(v)) }

	if inStartingEleven {
		total = total.Add(rules.Value(scoring.RulePlayingEleven))
	}

	batting := stat.Batting
	total = total.Add(rules.Value(scoring.RuleRun).Mul(n(batting.Runs)))
	total = total.Add(rules.Value(scoring.RuleFourBonus).Mul(n(batting.Fours)))
	total = total.Add(rules.Value(scoring.RuleSixBonus).Mul(n(batting.Sixes)))
	switch {
	case batting.Runs >= 100:
		total = total.Add(rules.Value(scoring.RuleCentury))
	case batting.Runs >= 50:
		total = total.Add(rules.Value(scoring.RuleHalfCentury))
	}
	if batting.Runs == 0 && batting.BallsFaced > 0 && !batting.NotOut {
		total = total.Add(rules.Value(scoring.RuleDuck))
	}
	if batting.BallsFaced >= strikeRateMinBalls {
		sr := batting.StrikeRate()
		switch {
		case sr.GreaterThanOrEqual(decimal.NewFromInt(150)):
			total = total.Add(rules.Value(scoring.RuleStrikeRateOver150))
		case sr.LessThan(decimal.NewFromInt(70)):
			total = total.Add(rules.Value(scoring.RuleStrikeRateUnder70))
		}
	}

	bowling := stat.Bowling
	total = total.Add(rules.Value(scoring.RuleWicket).Mul(n(bowling.Wickets)))
	total = total.Add(rules.Value(scoring.RuleMaiden).Mul(n(bowling.Maidens)))
	total = total.Add(rules.Value(scoring.RuleDotBallPair).Mul(n(bowling.DotBallPairs)))
	switch {
	case bowling.Wickets >= 5:
		total = total.Add(rules.Value(scoring.RuleFiveWicketHaul))
	case bowling.Wickets >= 4:
		total = total.Add(rules.Value(scoring.RuleFourWicketHaul))
	}
	if bowling.BallsBowled >= economyMinBalls {
		economy := bowling.EconomyRate()
		switch {
		case economy.LessThan(decimal.NewFromInt(4)):
			total = total.Add(rules.Value(scoring.RuleEconomyUnder4))
		case economy.LessThan(decimal.NewFromInt(5)):
			total = total.Add(rules.Value(scoring.RuleEconomyUnder5))
		case economy.GreaterThan(decimal.NewFromInt(10)):
			total = total.Add(rules.Value(scoring.RuleEconomyOver10))
		case economy.GreaterThan(decimal.NewFromInt(9)):
			total = total.Add(rules.Value(scoring.RuleEconomyOver9))
		}
	}

	fielding := stat.Fielding
	total = total.Add(rules.Value(scoring.RuleCatch).Mul(n(fielding.Catches)))
	total = total.Add(rules.Value(scoring.RuleStumping).Mul(n(fielding.Stumpings)))
	total = total.Add(rules.Value(scoring.RuleDirectRunOut).Mul(n(fielding.DirectRunOuts)))
	assisted := fielding.RunOuts - fielding.DirectRunOuts
	if assisted > 0 {
		total = total.Add(rules.Value(scoring.RuleAssistedRunOut).Mul(n(assisted)))
	}

	return total
}

// ApplyMultiplier scales a pick's points by its captaincy role.
func ApplyMultiplier(points decimal.Decimal, pick fantasy.Pick) decimal.Decimal {
	switch {
	case pick.IsCaptain:
		return points.Mul(scoring.CaptainMultiplier)
	case pick.IsViceCaptain:
		return points.Mul(scoring.ViceCaptainMultiplier)
	}
	return points
}

// ComputeMatchPoints scores every player with statistics in the match and
// refreshes every fantasy team's per-pick and total points. It returns the
// per-player base points for callers that rank contests afterwards.
func (s *PointsService) ComputeMatchPoints(ctx context.Context, matchID int64) (map[int64]decimal.Decimal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsService.ComputeMatchPoints")
	defer span.End()

	if s.statsRepo == nil || s.scoringRepo == nil || s.fantasyRepo == nil {
		return nil, fmt.Errorf("%w: points computation is not fully configured", ErrDependencyUnavailable)
	}

	rules, err := s.scoringRepo.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scoring rules: %w", err)
	}

	rows, err := s.statsRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match statistics match_id=%d: %w", matchID, err)
	}

	starters := make(map[int64]bool)
	if s.lineupRepo != nil {
		entries, err := s.lineupRepo.ListLineup(ctx, matchID)
		if err != nil {
			s.logger.WarnContext(ctx, "load lineup failed, scoring without playing bonus", "match_id", matchID, "error", err)
		}
		for _, entry := range entries {
			if entry.Status == stats.LineupStarting {
				starters[entry.PlayerID] = true
			}
		}
	}

	pointsByPlayer := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		pointsByPlayer[row.PlayerID] = PlayerPoints(rules, row, starters[row.PlayerID])
	}

	teams, err := s.fantasyRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list fantasy teams match_id=%d: %w", matchID, err)
	}

	// Team scoring is pure and independent per team; fan it out, but funnel
	// repository writes through one mutex-free path per worker.
	var mu sync.Mutex
	var failed int
	workers := pool.New().WithMaxGoroutines(s.workers)
	for _, item := range teams {
		team := item
		workers.Go(func() {
			total := decimal.Zero
			for idx := range team.Picks {
				if team.Picks[idx].IsSubstitute {
					team.Picks[idx].Points = decimal.Zero
					continue
				}
				base := pointsByPlayer[team.Picks[idx].PlayerID]
				team.Picks[idx].Points = ApplyMultiplier(base, team.Picks[idx])
				total = total.Add(team.Picks[idx].Points)
			}
			team.Points = total
			if err := s.fantasyRepo.UpdatePoints(ctx, team); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				s.logger.WarnContext(ctx, "update fantasy team points failed", "fantasy_team_id", team.ID, "error", err)
			}
		})
	}
	workers.Wait()

	s.logger.InfoContext(ctx, "match points computed",
		"match_id", matchID,
		"players", len(pointsByPlayer),
		"fantasy_teams", len(teams),
		"failed", failed,
	)
	return pointsByPlayer, nil
}
