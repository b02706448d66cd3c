package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

var (
	creditsBase = decimal.RequireFromString("7")
	creditsMin  = decimal.RequireFromString("6.5")
	creditsMax  = decimal.RequireFromString("11")
	creditsStep = decimal.RequireFromString("0.5")
)

type RatingConfig struct {
	PoolSize      int
	RecentMatches int
}

// RatingService recomputes the derived fantasy fields of every player from
// their recent match statistics. Players with no synced statistics yet are
// priced from the provider's career aggregates instead, so a freshly imported
// squad is never stuck on the base credit.
type RatingService struct {
	provider    CricketDataProvider
	playerRepo  player.Repository
	matchRepo   match.Repository
	statsRepo   stats.Repository
	scoringRepo scoring.Repository
	fantasyRepo fantasy.Repository
	cfg         RatingConfig
	logger      *logging.Logger
}

func NewRatingService(
	provider CricketDataProvider,
	playerRepo player.Repository,
	matchRepo match.Repository,
	statsRepo stats.Repository,
	scoringRepo scoring.Repository,
	fantasyRepo fantasy.Repository,
	cfg RatingConfig,
	logger *logging.Logger,
) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.PoolSize < 1 {
		cfg.PoolSize = 8
	}
	if cfg.RecentMatches < 1 {
		cfg.RecentMatches = 10
	}

	return &RatingService{
		provider:    provider,
		playerRepo:  playerRepo,
		matchRepo:   matchRepo,
		statsRepo:   statsRepo,
		scoringRepo: scoringRepo,
		fantasyRepo: fantasyRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// RecomputeAll refreshes the rating of every known player.
func (s *RatingService) RecomputeAll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.RecomputeAll")
	defer span.End()

	if s.playerRepo == nil || s.statsRepo == nil || s.scoringRepo == nil {
		return fmt.Errorf("%w: rating recompute is not fully configured", ErrDependencyUnavailable)
	}

	rules, err := s.scoringRepo.GetRules(ctx)
	if err != nil {
		return fmt.Errorf("load scoring rules: %w", err)
	}

	ids, err := s.playerRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list player ids: %w", err)
	}

	workers, err := ants.NewPool(s.cfg.PoolSize)
	if err != nil {
		return fmt.Errorf("start rating worker pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed int
	for _, id := range ids {
		playerID := id
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			if err := s.recomputePlayer(ctx, rules, playerID); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				s.logger.WarnContext(ctx, "recompute player rating failed", "player_id", playerID, "error", err)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "player ratings recomputed", "players", len(ids), "failed", failed)
	return nil
}

// RecomputePlayer refreshes one player's rating on demand.
func (s *RatingService) RecomputePlayer(ctx context.Context, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.RecomputePlayer")
	defer span.End()

	rules, err := s.scoringRepo.GetRules(ctx)
	if err != nil {
		return fmt.Errorf("load scoring rules: %w", err)
	}
	return s.recomputePlayer(ctx, rules, playerID)
}

func (s *RatingService) recomputePlayer(ctx context.Context, rules scoring.RuleSet, playerID int64) error {
	recent, err := s.statsRepo.ListRecentByPlayer(ctx, playerID, s.cfg.RecentMatches)
	if err != nil {
		return fmt.Errorf("list recent statistics player_id=%d: %w", playerID, err)
	}
	if len(recent) == 0 {
		return s.seedFromCareer(ctx, rules, playerID)
	}

	total := decimal.Zero
	for _, row := range recent {
		total = total.Add(PlayerPoints(rules, row, false))
	}
	average := total.DivRound(decimal.NewFromInt(int64(len(recent))), 2)

	selectedBy, err := s.selectionShare(ctx, playerID, recent)
	if err != nil {
		return err
	}
	played, err := s.playedLastMatch(ctx, playerID, recent[0].TeamID)
	if err != nil {
		return err
	}

	return s.playerRepo.UpdateRating(ctx, playerID, creditsFromAverage(average), average, selectedBy, played)
}

// seedFromCareer prices a player who has no synced match statistics from the
// provider's per-season career aggregates. The career totals collapse to one
// average match line, which then flows through the regular points rules.
func (s *RatingService) seedFromCareer(ctx context.Context, rules scoring.RuleSet, playerID int64) error {
	if s.provider == nil {
		return nil
	}

	item, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load player id=%d: %w", playerID, err)
	}
	if !found || item.ExternalID == 0 {
		return nil
	}

	careers, err := s.provider.FetchPlayerCareer(ctx, item.ExternalID)
	if err != nil {
		return fmt.Errorf("fetch player career external_id=%d: %w", item.ExternalID, err)
	}

	var matches, runs, ballsFaced, wickets, ballsBowled, runsConceded int
	for _, row := range careers {
		matches += row.Matches
		runs += row.Runs
		ballsFaced += row.BallsFaced
		wickets += row.Wickets
		ballsBowled += row.BallsBowled
		runsConceded += row.RunsConceded
	}
	if matches == 0 {
		return nil
	}

	perMatch := stats.PlayerMatchStat{
		PlayerID: playerID,
		Batting: stats.Batting{
			Runs:       runs / matches,
			BallsFaced: ballsFaced / matches,
		},
		Bowling: stats.Bowling{
			Wickets:      wickets / matches,
			BallsBowled:  ballsBowled / matches,
			RunsConceded: runsConceded / matches,
		},
	}
	average := PlayerPoints(rules, perMatch, false)

	return s.playerRepo.UpdateRating(ctx, playerID, creditsFromAverage(average), average, decimal.Zero, false)
}

// selectionShare is the percentage of fantasy lineups across the player's
// recent matches that include the player.
func (s *RatingService) selectionShare(ctx context.Context, playerID int64, recent []stats.PlayerMatchStat) (decimal.Decimal, error) {
	if s.fantasyRepo == nil {
		return decimal.Zero, nil
	}

	var total, picked int64
	for _, row := range recent {
		teams, err := s.fantasyRepo.ListByMatch(ctx, row.MatchID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("list fantasy teams match_id=%d: %w", row.MatchID, err)
		}
		for _, team := range teams {
			total++
			for _, pick := range team.Picks {
				if pick.PlayerID == playerID {
					picked++
					break
				}
			}
		}
	}
	if total == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(picked * 100).DivRound(decimal.NewFromInt(total), 2), nil
}

// playedLastMatch reports whether the player has a stat line in the most
// recent finished match of their team.
func (s *RatingService) playedLastMatch(ctx context.Context, playerID, teamID int64) (bool, error) {
	if s.matchRepo == nil || teamID == 0 {
		return false, nil
	}

	last, found, err := s.matchRepo.LastFinishedByTeam(ctx, teamID)
	if err != nil {
		return false, fmt.Errorf("load last finished match team_id=%d: %w", teamID, err)
	}
	if !found {
		return false, nil
	}
	_, played, err := s.statsRepo.GetByMatchAndPlayer(ctx, last.ID, playerID)
	if err != nil {
		return false, fmt.Errorf("load last match statistics player_id=%d: %w", playerID, err)
	}
	return played, nil
}

// creditsFromAverage maps average match points to a selection price on the
// half-credit grid between 6.5 and 11.
func creditsFromAverage(average decimal.Decimal) decimal.Decimal {
	credits := creditsBase.Add(average.Div(decimal.NewFromInt(20)))
	credits = credits.Div(creditsStep).Round(0).Mul(creditsStep)
	if credits.LessThan(creditsMin) {
		return creditsMin
	}
	if credits.GreaterThan(creditsMax) {
		return creditsMax
	}
	return credits
}
