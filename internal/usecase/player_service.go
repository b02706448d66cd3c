package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

// PlayerService serves squad and player statistic reads.
type PlayerService struct {
	playerRepo player.Repository
	teamRepo   team.Repository
	statsRepo  stats.Repository
	logger     *logging.Logger
}

func NewPlayerService(playerRepo player.Repository, teamRepo team.Repository, statsRepo stats.Repository, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		statsRepo:  statsRepo,
		logger:     logger,
	}
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	if id <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	item, found, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("load player id=%d: %w", id, err)
	}
	if !found {
		return player.Player{}, fmt.Errorf("%w: player id=%d", ErrNotFound, id)
	}
	return item, nil
}

// TeamSquad lists the players registered for a team in one season.
func (s *PlayerService) TeamSquad(ctx context.Context, teamID int64, season string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.TeamSquad")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}
	if strings.TrimSpace(season) == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if _, found, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("load team id=%d: %w", teamID, err)
	} else if !found {
		return nil, fmt.Errorf("%w: team id=%d", ErrNotFound, teamID)
	}
	return s.playerRepo.ListByTeamSeason(ctx, teamID, season)
}

// RecentStats returns the player's latest match statistic rows, newest first.
func (s *PlayerService) RecentStats(ctx context.Context, playerID int64, limit int) ([]stats.PlayerMatchStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RecentStats")
	defer span.End()

	if playerID <= 0 {
		return nil, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.statsRepo.ListRecentByPlayer(ctx, playerID, limit)
}
