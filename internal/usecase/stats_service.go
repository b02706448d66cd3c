package usecase

import (
	"context"
	"fmt"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

// StatsIngestionService turns provider scoreboards into per-(match, player)
// statistic rows. Writes are idempotent and discipline-scoped: replaying the
// same scoreboard converges to the same rows, and a bowling update never
// disturbs a stored batting line.
type StatsIngestionService struct {
	provider   CricketDataProvider
	matchRepo  match.Repository
	playerRepo player.Repository
	teamRepo   team.Repository
	statsRepo  stats.Repository
	lineupRepo stats.LineupRepository
	logger     *logging.Logger
}

func NewStatsIngestionService(
	provider CricketDataProvider,
	matchRepo match.Repository,
	playerRepo player.Repository,
	teamRepo team.Repository,
	statsRepo stats.Repository,
	lineupRepo stats.LineupRepository,
	logger *logging.Logger,
) *StatsIngestionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatsIngestionService{
		provider:   provider,
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		statsRepo:  statsRepo,
		lineupRepo: lineupRepo,
		logger:     logger,
	}
}

// IngestScoreboard writes every player line of the scoreboard. Players the
// entity sync has not mapped yet are counted and skipped.
func (s *StatsIngestionService) IngestScoreboard(ctx context.Context, matchID int64, board ExternalScoreboard) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsIngestionService.IngestScoreboard")
	defer span.End()

	if s.statsRepo == nil || s.playerRepo == nil || s.teamRepo == nil {
		return fmt.Errorf("%w: statistics ingestion is not fully configured", ErrDependencyUnavailable)
	}

	playerIDByExternal, teamIDByExternal, err := s.loadMappings(ctx, board)
	if err != nil {
		return err
	}

	dotsByBowler := s.loadDotBalls(ctx, matchID)

	// Every stat line of the scoreboard commits in one transaction; a
	// failing upsert rolls the whole match back so replays never see a
	// half-written board.
	var written, unmapped int
	err = s.statsRepo.InTx(ctx, func(repo stats.Repository) error {
		for _, line := range board.Batting {
			playerID, ok := playerIDByExternal[line.PlayerExternalID]
			if !ok {
				unmapped++
				continue
			}
			row := stats.Batting{
				Runs:       line.Runs,
				BallsFaced: line.BallsFaced,
				Fours:      line.Fours,
				Sixes:      line.Sixes,
				Dismissal:  line.Dismissal,
				NotOut:     line.NotOut,
			}
			if err := repo.UpsertBatting(ctx, matchID, playerID, teamIDByExternal[line.TeamExternalID], row); err != nil {
				return fmt.Errorf("upsert batting line player_id=%d: %w", playerID, err)
			}
			written++
		}

		for _, line := range board.Bowling {
			playerID, ok := playerIDByExternal[line.PlayerExternalID]
			if !ok {
				unmapped++
				continue
			}
			row := stats.Bowling{
				BallsBowled:  line.BallsBowled,
				Maidens:      line.Maidens,
				RunsConceded: line.RunsConceded,
				Wickets:      line.Wickets,
				Wides:        line.Wides,
				NoBalls:      line.NoBalls,
			}
			if dots, ok := dotsByBowler[line.PlayerExternalID]; ok {
				row.DotBalls = dots.dots
				row.DotBallPairs = dots.pairs
			}
			if err := repo.UpsertBowling(ctx, matchID, playerID, teamIDByExternal[line.TeamExternalID], row); err != nil {
				return fmt.Errorf("upsert bowling line player_id=%d: %w", playerID, err)
			}
			written++
		}

		for _, line := range board.Fielding {
			playerID, ok := playerIDByExternal[line.PlayerExternalID]
			if !ok {
				unmapped++
				continue
			}
			row := stats.Fielding{
				Catches:       line.Catches,
				RunOuts:       line.RunOuts,
				DirectRunOuts: line.DirectRunOuts,
				Stumpings:     line.Stumpings,
			}
			if err := repo.UpsertFielding(ctx, matchID, playerID, teamIDByExternal[line.TeamExternalID], row); err != nil {
				return fmt.Errorf("upsert fielding line player_id=%d: %w", playerID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ingest scoreboard match_id=%d: %w", matchID, err)
	}

	if s.lineupRepo != nil && len(board.Lineups) > 0 {
		entries := make([]stats.LineupEntry, 0, len(board.Lineups))
		for _, entry := range board.Lineups {
			playerID, ok := playerIDByExternal[entry.PlayerExternalID]
			if !ok {
				unmapped++
				continue
			}
			entries = append(entries, stats.LineupEntry{
				MatchID:   matchID,
				PlayerID:  playerID,
				TeamID:    teamIDByExternal[entry.TeamExternalID],
				Status:    normalizeLineupStatus(entry.Status),
				IsCaptain: entry.IsCaptain,
				IsKeeper:  entry.IsKeeper,
			})
		}
		if err := s.lineupRepo.ReplaceLineup(ctx, matchID, entries); err != nil {
			s.logger.WarnContext(ctx, "replace lineup failed", "match_id", matchID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "scoreboard ingested",
		"match_id", matchID,
		"written", written,
		"unmapped", unmapped,
	)
	return nil
}

type dotCounts struct {
	dots  int
	pairs int
}

// IngestBallEvents patches stored bowling lines with dot counts folded from
// a ball-by-ball payload, keyed by external bowler id. Bowlers without a
// stored bowling row yet get one holding just the dot fields.
func (s *StatsIngestionService) IngestBallEvents(ctx context.Context, matchID int64, deliveries []ExternalDelivery) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsIngestionService.IngestBallEvents")
	defer span.End()

	if s.statsRepo == nil || s.playerRepo == nil {
		return fmt.Errorf("%w: statistics ingestion is not fully configured", ErrDependencyUnavailable)
	}
	if matchID <= 0 {
		return fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	counts := foldDotCounts(deliveries)
	if len(counts) == 0 {
		return nil
	}

	bowlerExternalIDs := make([]int64, 0, len(counts))
	for externalID := range counts {
		bowlerExternalIDs = append(bowlerExternalIDs, externalID)
	}
	playerIDByExternal, err := s.playerRepo.MapExternalIDs(ctx, bowlerExternalIDs)
	if err != nil {
		return fmt.Errorf("map ball event bowler ids: %w", err)
	}

	var written, unmapped int
	err = s.statsRepo.InTx(ctx, func(repo stats.Repository) error {
		for externalID, c := range counts {
			playerID, ok := playerIDByExternal[externalID]
			if !ok {
				unmapped++
				continue
			}
			row, _, err := repo.GetByMatchAndPlayer(ctx, matchID, playerID)
			if err != nil {
				return fmt.Errorf("load bowling line player_id=%d: %w", playerID, err)
			}
			line := row.Bowling
			line.DotBalls = c.dots
			line.DotBallPairs = c.pairs
			if err := repo.UpsertBowling(ctx, matchID, playerID, row.TeamID, line); err != nil {
				return fmt.Errorf("patch dot counts player_id=%d: %w", playerID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ingest ball events match_id=%d: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "ball events ingested",
		"match_id", matchID,
		"bowlers", written,
		"unmapped", unmapped,
	)
	return nil
}

// foldDotCounts groups a delivery feed by bowler and counts dots and
// non-overlapping dot pairs per bowler, preserving ball order.
func foldDotCounts(deliveries []ExternalDelivery) map[int64]dotCounts {
	if len(deliveries) == 0 {
		return nil
	}

	byBowler := make(map[int64][]stats.Delivery)
	for _, d := range deliveries {
		byBowler[d.BowlerExternalID] = append(byBowler[d.BowlerExternalID], stats.Delivery{
			BowlerID: d.BowlerExternalID,
			Runs:     d.Runs,
			Byes:     d.Byes,
			LegByes:  d.LegByes,
			IsWide:   d.IsWide,
			IsNoBall: d.IsNoBall,
		})
	}

	out := make(map[int64]dotCounts, len(byBowler))
	for bowlerExternalID, balls := range byBowler {
		dots, pairs := stats.CountDotBalls(balls)
		out[bowlerExternalID] = dotCounts{dots: dots, pairs: pairs}
	}
	return out
}

// loadDotBalls fetches the ball-by-ball feed and folds it into per-bowler dot
// counts. The feed is optional: when it is missing the scoreboard lines keep
// their stored dot values.
func (s *StatsIngestionService) loadDotBalls(ctx context.Context, matchID int64) map[int64]dotCounts {
	if s.provider == nil || s.matchRepo == nil {
		return nil
	}

	item, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil || !found {
		s.logger.WarnContext(ctx, "load match for ball-by-ball feed failed", "match_id", matchID, "found", found, "error", err)
		return nil
	}

	deliveries, err := s.provider.FetchDeliveries(ctx, item.ExternalID)
	if err != nil {
		s.logger.WarnContext(ctx, "fetch ball-by-ball feed failed, keeping scoreboard dot counts", "match_id", matchID, "error", err)
		return nil
	}

	return foldDotCounts(deliveries)
}

func (s *StatsIngestionService) loadMappings(ctx context.Context, board ExternalScoreboard) (map[int64]int64, map[int64]int64, error) {
	playerExternalIDs := make([]int64, 0, len(board.Batting)+len(board.Bowling)+len(board.Fielding)+len(board.Lineups))
	teamExternalIDs := make([]int64, 0, 4)
	seenTeams := make(map[int64]struct{}, 4)

	collect := func(playerExternalID, teamExternalID int64) {
		playerExternalIDs = append(playerExternalIDs, playerExternalID)
		if teamExternalID > 0 {
			if _, ok := seenTeams[teamExternalID]; !ok {
				seenTeams[teamExternalID] = struct{}{}
				teamExternalIDs = append(teamExternalIDs, teamExternalID)
			}
		}
	}
	for _, line := range board.Batting {
		collect(line.PlayerExternalID, line.TeamExternalID)
	}
	for _, line := range board.Bowling {
		collect(line.PlayerExternalID, line.TeamExternalID)
	}
	for _, line := range board.Fielding {
		collect(line.PlayerExternalID, line.TeamExternalID)
	}
	for _, entry := range board.Lineups {
		collect(entry.PlayerExternalID, entry.TeamExternalID)
	}

	playerIDByExternal, err := s.playerRepo.MapExternalIDs(ctx, playerExternalIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("map scoreboard player ids: %w", err)
	}
	teamIDByExternal, err := s.teamRepo.MapExternalIDs(ctx, teamExternalIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("map scoreboard team ids: %w", err)
	}
	return playerIDByExternal, teamIDByExternal, nil
}

func normalizeLineupStatus(raw string) string {
	switch raw {
	case stats.LineupStarting, "playing", "playing_xi":
		return stats.LineupStarting
	case stats.LineupSubstitute, "bench", "impact":
		return stats.LineupSubstitute
	default:
		return stats.LineupProbable
	}
}
