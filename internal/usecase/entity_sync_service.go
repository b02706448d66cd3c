package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

type EntitySyncConfig struct {
	Enabled   bool
	CallDelay time.Duration
}

// EntitySyncService mirrors provider tournaments, teams, and squads into
// local storage, keeping the external to internal id mapping current. Sync
// passes are per-item fault tolerant: one bad row is logged and skipped, the
// rest of the pass continues.
type EntitySyncService struct {
	provider       CricketDataProvider
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	playerRepo     player.Repository
	cfg            EntitySyncConfig
	logger         *logging.Logger
}

func NewEntitySyncService(
	provider CricketDataProvider,
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	cfg EntitySyncConfig,
	logger *logging.Logger,
) *EntitySyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &EntitySyncService{
		provider:       provider,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		cfg:            cfg,
		logger:         logger,
	}
}

// SyncTournaments pulls the provider tournament list and upserts every row
// keyed by external id.
func (s *EntitySyncService) SyncTournaments(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntitySyncService.SyncTournaments")
	defer span.End()

	if err := s.ready(); err != nil {
		return err
	}

	rows, err := s.provider.FetchTournaments(ctx)
	if err != nil {
		return fmt.Errorf("fetch tournaments from provider: %w", err)
	}

	var failed int
	for _, row := range rows {
		item := tournament.Tournament{
			ExternalID: row.ExternalID,
			Name:       row.Name,
			Season:     row.Season,
			Status:     tournament.NormalizeStatus(row.Status),
			Metadata:   row.Raw,
		}
		if err := item.ValidateBasic(); err != nil {
			failed++
			s.logger.WarnContext(ctx, "skip invalid provider tournament", "external_id", row.ExternalID, "error", err)
			continue
		}
		if _, err := s.tournamentRepo.Upsert(ctx, item); err != nil {
			failed++
			s.logger.WarnContext(ctx, "upsert tournament failed", "external_id", row.ExternalID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "tournament sync finished", "total", len(rows), "failed", failed)
	return nil
}

// SyncTeams pulls the provider team list for one tournament.
func (s *EntitySyncService) SyncTeams(ctx context.Context, tournamentID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntitySyncService.SyncTeams")
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

	rows, err := s.provider.FetchTeams(ctx, tour.ExternalID)
	if err != nil {
		return fmt.Errorf("fetch teams tournament_id=%d: %w", tournamentID, err)
	}

	var failed int
	for _, row := range rows {
		item := team.Team{
			ExternalID:   row.ExternalID,
			TournamentID: tour.ID,
			Name:         row.Name,
			ShortName:    row.ShortName,
			LogoURL:      row.LogoURL,
			Country:      row.Country,
		}
		if err := item.ValidateBasic(); err != nil {
			failed++
			s.logger.WarnContext(ctx, "skip invalid provider team", "external_id", row.ExternalID, "error", err)
			continue
		}
		if _, err := s.teamRepo.Upsert(ctx, item); err != nil {
			failed++
			s.logger.WarnContext(ctx, "upsert team failed", "external_id", row.ExternalID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "team sync finished", "tournament_id", tournamentID, "total", len(rows), "failed", failed)
	return nil
}

// SyncSquads pulls every team's squad for one tournament and refreshes player
// rows plus their season-scoped team memberships. Provider calls are paced by
// the configured delay to stay inside the vendor rate limit.
func (s *EntitySyncService) SyncSquads(ctx context.Context, tournamentID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntitySyncService.SyncSquads")
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

	teams, err := s.teamRepo.ListByTournament(ctx, tour.ID)
	if err != nil {
		return fmt.Errorf("list teams tournament_id=%d: %w", tournamentID, err)
	}

	var synced, failed int
	for idx, teamRow := range teams {
		if idx > 0 {
			if err := sleepBetweenCalls(ctx, s.cfg.CallDelay); err != nil {
				return err
			}
		}

		squad, err := s.provider.FetchSquad(ctx, tour.ExternalID, teamRow.ExternalID)
		if err != nil {
			failed++
			s.logger.WarnContext(ctx, "fetch squad failed, continuing with next team",
				"tournament_id", tournamentID,
				"team_id", teamRow.ID,
				"error", err,
			)
			continue
		}

		for _, row := range squad {
			stored, err := s.upsertSquadPlayer(ctx, row)
			if err != nil {
				failed++
				s.logger.WarnContext(ctx, "upsert squad player failed", "external_id", row.ExternalID, "error", err)
				continue
			}
			membership := player.Membership{PlayerID: stored.ID, TeamID: teamRow.ID, Season: tour.Season}
			if err := s.playerRepo.EnsureMembership(ctx, membership); err != nil {
				failed++
				s.logger.WarnContext(ctx, "store squad membership failed", "player_id", stored.ID, "team_id", teamRow.ID, "error", err)
				continue
			}
			synced++
		}
	}

	s.logger.InfoContext(ctx, "squad sync finished", "tournament_id", tournamentID, "players", synced, "failed", failed)
	return nil
}

func (s *EntitySyncService) upsertSquadPlayer(ctx context.Context, row ExternalPlayer) (player.Player, error) {
	item := player.Player{
		ExternalID:   row.ExternalID,
		Name:         row.Name,
		Role:         player.NormalizeRole(row.Role),
		BattingStyle: row.BattingStyle,
		BowlingStyle: row.BowlingStyle,
		Nationality:  row.Nationality,
		BornOn:       row.BornOn,
		ImageURL:     row.ImageURL,
		Metadata:     row.Raw,
	}
	if err := item.ValidateBasic(); err != nil {
		return player.Player{}, err
	}
	return s.playerRepo.Upsert(ctx, item)
}

func (s *EntitySyncService) ready() error {
	if !s.cfg.Enabled {
		return fmt.Errorf("%w: cricket data sync is disabled (CRICKETDATA_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil || s.tournamentRepo == nil || s.teamRepo == nil || s.playerRepo == nil {
		return fmt.Errorf("%w: cricket data sync is not fully configured", ErrDependencyUnavailable)
	}
	return nil
}

// sleepBetweenCalls paces sequential provider calls, bailing out early when
// the context is cancelled.
func sleepBetweenCalls(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
