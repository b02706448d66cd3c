package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

// FantasyTeamService owns lineup creation and edits. Teams are frozen the
// moment the match leaves its pre-start statuses, and every pick must hold a
// membership in one of the match teams for the tournament's season.
type FantasyTeamService struct {
	fantasyRepo    fantasy.Repository
	matchRepo      match.Repository
	lineupRepo     stats.LineupRepository
	playerRepo     player.Repository
	tournamentRepo tournament.Repository
	logger         *logging.Logger
}

func NewFantasyTeamService(
	fantasyRepo fantasy.Repository,
	matchRepo match.Repository,
	lineupRepo stats.LineupRepository,
	playerRepo player.Repository,
	tournamentRepo tournament.Repository,
	logger *logging.Logger,
) *FantasyTeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FantasyTeamService{
		fantasyRepo:    fantasyRepo,
		matchRepo:      matchRepo,
		lineupRepo:     lineupRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

// SaveTeam creates or replaces the user's lineup for a match after shape
// validation and the pre-start freeze check.
func (s *FantasyTeamService) SaveTeam(ctx context.Context, team fantasy.Team) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FantasyTeamService.SaveTeam")
	defer span.End()

	if err := team.Validate(); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	item, found, err := s.matchRepo.GetByID(ctx, team.MatchID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("load match id=%d: %w", team.MatchID, err)
	}
	if !found {
		return fantasy.Team{}, fmt.Errorf("%w: match id=%d", ErrNotFound, team.MatchID)
	}
	if item.Status != match.StatusNotStarted && item.Status != match.StatusToss {
		return fantasy.Team{}, fmt.Errorf("%w: lineups are frozen once the match starts", ErrConflict)
	}

	if err := s.checkMemberships(ctx, item, team); err != nil {
		return fantasy.Team{}, err
	}

	saved, err := s.fantasyRepo.Save(ctx, team)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("save fantasy team: %w", err)
	}

	s.logger.InfoContext(ctx, "fantasy team saved", "fantasy_team_id", saved.ID, "user_id", saved.UserID, "match_id", saved.MatchID)
	return saved, nil
}

// checkMemberships verifies every pick against the season-scoped squads of
// the two match teams. Team affiliation is never read off the player row; it
// only exists per (player, team, season).
func (s *FantasyTeamService) checkMemberships(ctx context.Context, item match.Match, team fantasy.Team) error {
	if s.playerRepo == nil || s.tournamentRepo == nil {
		return fmt.Errorf("%w: squad membership lookup is not configured", ErrDependencyUnavailable)
	}

	tour, found, err := s.tournamentRepo.GetByID(ctx, item.TournamentID)
	if err != nil {
		return fmt.Errorf("load tournament id=%d: %w", item.TournamentID, err)
	}
	if !found {
		return fmt.Errorf("%w: tournament id=%d", ErrNotFound, item.TournamentID)
	}

	eligible := make(map[int64]struct{}, 2*fantasy.TeamSize)
	for _, teamID := range []int64{item.HomeTeamID, item.AwayTeamID} {
		members, err := s.playerRepo.ListByTeamSeason(ctx, teamID, tour.Season)
		if err != nil {
			return fmt.Errorf("list squad team_id=%d season=%s: %w", teamID, tour.Season, err)
		}
		for _, member := range members {
			eligible[member.ID] = struct{}{}
		}
	}

	for _, pick := range team.Picks {
		if _, ok := eligible[pick.PlayerID]; !ok {
			return fmt.Errorf("%w: player %d is not in either match squad for season %s", ErrInvalidInput, pick.PlayerID, tour.Season)
		}
	}
	return nil
}

func (s *FantasyTeamService) GetTeam(ctx context.Context, id int64) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FantasyTeamService.GetTeam")
	defer span.End()

	team, found, err := s.fantasyRepo.GetByID(ctx, id)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("load fantasy team id=%d: %w", id, err)
	}
	if !found {
		return fantasy.Team{}, fmt.Errorf("%w: fantasy team id=%d", ErrNotFound, id)
	}
	return team, nil
}

func (s *FantasyTeamService) ListUserTeams(ctx context.Context, userID, matchID int64) ([]fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FantasyTeamService.ListUserTeams")
	defer span.End()

	if userID <= 0 || matchID <= 0 {
		return nil, fmt.Errorf("%w: user id and match id are required", ErrInvalidInput)
	}
	return s.fantasyRepo.ListByUserAndMatch(ctx, userID, matchID)
}

// UserMatchSummary pairs a match with the user's lineups for it.
type UserMatchSummary struct {
	Match match.Match
	Teams []fantasy.Team
}

// ListUserMatches returns every match the user has saved a lineup for, most
// recent start time first, with the lineups embedded.
func (s *FantasyTeamService) ListUserMatches(ctx context.Context, userID int64) ([]UserMatchSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FantasyTeamService.ListUserMatches")
	defer span.End()

	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	teams, err := s.fantasyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list fantasy teams user_id=%d: %w", userID, err)
	}

	byMatch := make(map[int64]int, len(teams))
	out := make([]UserMatchSummary, 0, len(teams))
	for _, team := range teams {
		idx, seen := byMatch[team.MatchID]
		if !seen {
			item, found, err := s.matchRepo.GetByID(ctx, team.MatchID)
			if err != nil {
				return nil, fmt.Errorf("load match id=%d: %w", team.MatchID, err)
			}
			if !found {
				s.logger.WarnContext(ctx, "fantasy team references missing match", "fantasy_team_id", team.ID, "match_id", team.MatchID)
				continue
			}
			out = append(out, UserMatchSummary{Match: item})
			idx = len(out) - 1
			byMatch[team.MatchID] = idx
		}
		out[idx].Teams = append(out[idx].Teams, team)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Match.StartsAt.After(out[j].Match.StartsAt) })
	return out, nil
}

// MatchLineup exposes the announced lineup so users can pick from confirmed
// players.
func (s *FantasyTeamService) MatchLineup(ctx context.Context, matchID int64) ([]stats.LineupEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FantasyTeamService.MatchLineup")
	defer span.End()

	if s.lineupRepo == nil {
		return nil, fmt.Errorf("%w: lineup storage is not configured", ErrDependencyUnavailable)
	}
	return s.lineupRepo.ListLineup(ctx, matchID)
}
