package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

type MatchSyncConfig struct {
	Enabled   bool
	CallDelay time.Duration
	LookBack  time.Duration
	LookAhead time.Duration
}

// scoreboardIngestor receives the scoreboard of a synced match so statistics
// stay current with the lifecycle pass.
type scoreboardIngestor interface {
	IngestScoreboard(ctx context.Context, matchID int64, board ExternalScoreboard) error
}

// matchSettler is notified when a match reaches a terminal status so points
// and contest payouts can run.
type matchSettler interface {
	OnMatchFinished(ctx context.Context, matchID int64) error
}

// MatchSyncService mirrors provider fixtures and walks stored matches through
// their lifecycle from live scoreboard data.
type MatchSyncService struct {
	provider       CricketDataProvider
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	matchRepo      match.Repository
	ingestor       scoreboardIngestor
	settler        matchSettler
	cfg            MatchSyncConfig
	logger         *logging.Logger
	now            func() time.Time
}

func NewMatchSyncService(
	provider CricketDataProvider,
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	ingestor scoreboardIngestor,
	settler matchSettler,
	cfg MatchSyncConfig,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchSyncService{
		provider:       provider,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		ingestor:       ingestor,
		settler:        settler,
		cfg:            cfg,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SyncFixtures pulls the provider fixture list for one tournament and upserts
// matches. Fixtures referencing teams not yet synced are skipped with a
// warning instead of failing the pass.
func (s *MatchSyncService) SyncFixtures(ctx context.Context, tournamentID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncFixtures")
	defer span.End()

	if err := s.ready(); err != nil {
		return err
	}

	tour, found, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("load tournament id=%d: %w", tournamentID, err)
	}
	if !found {
		return fmt.Errorf("%w: tournament id=%d", ErrNotFound, tournamentID)
	}

	fixtures, err := s.provider.FetchFixtures(ctx, tour.ExternalID)
	if err != nil {
		return fmt.Errorf("fetch fixtures tournament_id=%d: %w", tournamentID, err)
	}

	externalTeamIDs := make([]int64, 0, len(fixtures)*2)
	for _, fixture := range fixtures {
		externalTeamIDs = append(externalTeamIDs, fixture.HomeTeamExternalID, fixture.AwayTeamExternalID)
	}
	teamIDByExternal, err := s.teamRepo.MapExternalIDs(ctx, externalTeamIDs)
	if err != nil {
		return fmt.Errorf("map fixture team ids: %w", err)
	}

	var unmapped, failed int
	for _, fixture := range fixtures {
		homeID, homeOK := teamIDByExternal[fixture.HomeTeamExternalID]
		awayID, awayOK := teamIDByExternal[fixture.AwayTeamExternalID]
		if !homeOK || !awayOK {
			unmapped++
			s.logger.WarnContext(ctx, "skip fixture with unmapped teams",
				"fixture_external_id", fixture.ExternalID,
				"home_external_id", fixture.HomeTeamExternalID,
				"away_external_id", fixture.AwayTeamExternalID,
			)
			continue
		}

		item := match.Match{
			ExternalID:   fixture.ExternalID,
			TournamentID: tour.ID,
			HomeTeamID:   homeID,
			AwayTeamID:   awayID,
			Title:        fixture.Title,
			Format:       fixture.Format,
			Venue:        fixture.Venue,
			Status:       match.NormalizeStatus(fixture.Status),
			StartsAt:     fixture.StartsAt,
			Metadata:     fixture.Raw,
		}
		if err := item.ValidateBasic(); err != nil {
			failed++
			s.logger.WarnContext(ctx, "skip invalid provider fixture", "external_id", fixture.ExternalID, "error", err)
			continue
		}
		if _, err := s.matchRepo.Upsert(ctx, item); err != nil {
			failed++
			s.logger.WarnContext(ctx, "upsert match failed", "external_id", fixture.ExternalID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "fixture sync finished",
		"tournament_id", tournamentID,
		"total", len(fixtures),
		"unmapped", unmapped,
		"failed", failed,
	)
	return nil
}

// SyncWindow refreshes every non-terminal match starting inside the
// configured look-back/look-ahead window: scoreboard, lifecycle status, and
// statistics ingestion, one provider call per match with pacing in between.
func (s *MatchSyncService) SyncWindow(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncWindow")
	defer span.End()

	if err := s.ready(); err != nil {
		return err
	}

	now := s.now()
	matches, err := s.matchRepo.ListWindow(ctx, now.Add(-s.cfg.LookBack), now.Add(s.cfg.LookAhead), nil)
	if err != nil {
		return fmt.Errorf("list matches in sync window: %w", err)
	}

	var refreshed, failed int
	for idx, item := range matches {
		if item.Status.IsTerminal() {
			continue
		}
		if idx > 0 {
			if err := sleepBetweenCalls(ctx, s.cfg.CallDelay); err != nil {
				return err
			}
		}
		if err := s.refreshMatch(ctx, item); err != nil {
			failed++
			s.logger.WarnContext(ctx, "refresh match failed, continuing with next match", "match_id", item.ID, "error", err)
			continue
		}
		refreshed++
	}

	s.logger.InfoContext(ctx, "match window sync finished", "candidates", len(matches), "refreshed", refreshed, "failed", failed)
	return nil
}

// RefreshMatch re-syncs a single match on demand, regardless of the window.
func (s *MatchSyncService) RefreshMatch(ctx context.Context, matchID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.RefreshMatch")
	defer span.End()

	if err := s.ready(); err != nil {
		return err
	}

	item, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match id=%d: %w", matchID, err)
	}
	if !found {
		return fmt.Errorf("%w: match id=%d", ErrNotFound, matchID)
	}
	return s.refreshMatch(ctx, item)
}

func (s *MatchSyncService) refreshMatch(ctx context.Context, item match.Match) error {
	board, err := s.provider.FetchScoreboard(ctx, item.ExternalID)
	if err != nil {
		return fmt.Errorf("fetch scoreboard match_id=%d: %w", item.ID, err)
	}

	// The provider owns the lifecycle of a running fixture, so a backwards
	// non-terminal move is accepted as a correction. Settled matches stay
	// settled.
	next := match.NormalizeStatus(board.Status)
	if !item.Status.CanTransition(next) {
		if item.Status.IsTerminal() {
			s.logger.WarnContext(ctx, "ignore status change on settled match",
				"match_id", item.ID,
				"from", item.Status,
				"to", next,
			)
			next = item.Status
		} else {
			s.logger.InfoContext(ctx, "provider corrected match status backwards",
				"match_id", item.ID,
				"from", item.Status,
				"to", next,
			)
		}
	}

	card, err := s.buildScorecard(ctx, board)
	if err != nil {
		return err
	}

	// The finished timestamp is written exactly once, on the first terminal
	// transition, and never refreshed by later passes.
	var endsAt *time.Time
	if next.IsTerminal() && item.EndsAt == nil {
		finished := s.now()
		endsAt = &finished
	}

	if err := s.matchRepo.UpdateState(ctx, item.ID, next, endsAt, card); err != nil {
		return fmt.Errorf("update match state id=%d: %w", item.ID, err)
	}

	if s.ingestor != nil && (next.IsLive() || next == match.StatusFinished) {
		if err := s.ingestor.IngestScoreboard(ctx, item.ID, board); err != nil {
			s.logger.WarnContext(ctx, "ingest scoreboard failed", "match_id", item.ID, "error", err)
		}
	}

	if s.settler != nil && next == match.StatusFinished && !item.Status.IsTerminal() {
		if err := s.settler.OnMatchFinished(ctx, item.ID); err != nil {
			s.logger.WarnContext(ctx, "post-match settlement failed", "match_id", item.ID, "error", err)
		}
	}
	return nil
}

func (s *MatchSyncService) buildScorecard(ctx context.Context, board ExternalScoreboard) (*match.Scorecard, error) {
	if len(board.Innings) == 0 && board.WinnerExternalID == 0 && board.Note == "" {
		return nil, nil
	}

	externalTeamIDs := make([]int64, 0, len(board.Innings)+2)
	for _, innings := range board.Innings {
		externalTeamIDs = append(externalTeamIDs, innings.TeamExternalID)
	}
	if board.TossWonByExternalID > 0 {
		externalTeamIDs = append(externalTeamIDs, board.TossWonByExternalID)
	}
	if board.WinnerExternalID > 0 {
		externalTeamIDs = append(externalTeamIDs, board.WinnerExternalID)
	}
	teamIDByExternal, err := s.teamRepo.MapExternalIDs(ctx, externalTeamIDs)
	if err != nil {
		return nil, fmt.Errorf("map scorecard team ids: %w", err)
	}

	card := &match.Scorecard{
		TossWonBy:   teamIDByExternal[board.TossWonByExternalID],
		Elected:     board.Elected,
		WinnerID:    teamIDByExternal[board.WinnerExternalID],
		Note:        board.Note,
		DLSApplied:  board.DLSApplied,
		LastUpdated: s.now(),
	}
	for _, innings := range board.Innings {
		card.Scores = append(card.Scores, match.TeamScore{
			TeamID:  teamIDByExternal[innings.TeamExternalID],
			Innings: innings.Innings,
			Runs:    innings.Runs,
			Wickets: innings.Wickets,
			Overs:   innings.Overs,
			Byes:    innings.Byes,
			LegByes: innings.LegByes,
			Wides:   innings.Wides,
			NoBalls: innings.NoBalls,
			Penalty: innings.Penalty,
		})
	}
	return card, nil
}

func (s *MatchSyncService) ready() error {
	if !s.cfg.Enabled {
		return fmt.Errorf("%w: cricket data sync is disabled (CRICKETDATA_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil || s.tournamentRepo == nil || s.teamRepo == nil || s.matchRepo == nil {
		return fmt.Errorf("%w: match sync is not fully configured", ErrDependencyUnavailable)
	}
	return nil
}
