package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/platform/cache"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

// MatchService serves the public browse surface: tournaments, fixtures, and
// match detail with the latest scorecard.
type MatchService struct {
	tournamentRepo tournament.Repository
	matchRepo      match.Repository
	cache          *cache.Store
	logger         *logging.Logger
	now            func() time.Time
}

func NewMatchService(tournamentRepo tournament.Repository, matchRepo match.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithCache enables short-lived caching for the hot browse lists.
func (s *MatchService) WithCache(store *cache.Store) *MatchService {
	s.cache = store
	return s
}

func (s *MatchService) ListTournaments(ctx context.Context, status string, limit, offset int) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListTournaments")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.tournamentRepo.List(ctx, status, limit, offset)
}

func (s *MatchService) GetMatch(ctx context.Context, id int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	if id <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	item, found, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("load match id=%d: %w", id, err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match id=%d", ErrNotFound, id)
	}
	return item, nil
}

func (s *MatchService) ListByTournament(ctx context.Context, tournamentID int64, limit, offset int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByTournament")
	defer span.End()

	if tournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament id must be greater than zero", ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.matchRepo.ListByTournament(ctx, tournamentID, limit, offset)
}

// ListUpcoming returns matches that have not started yet inside the horizon.
func (s *MatchService) ListUpcoming(ctx context.Context, horizon time.Duration) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListUpcoming")
	defer span.End()

	if horizon <= 0 {
		horizon = 7 * 24 * time.Hour
	}
	load := func(ctx context.Context) ([]match.Match, error) {
		now := s.now()
		return s.matchRepo.ListWindow(ctx, now, now.Add(horizon), []match.Status{match.StatusNotStarted, match.StatusToss})
	}
	if s.cache == nil {
		return load(ctx)
	}
	return cachedList(ctx, s.cache, fmt.Sprintf("matches:upcoming:%s", horizon), load)
}

// ListLive returns matches currently in play.
func (s *MatchService) ListLive(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListLive")
	defer span.End()

	load := func(ctx context.Context) ([]match.Match, error) {
		now := s.now()
		rows, err := s.matchRepo.ListWindow(ctx, now.Add(-7*24*time.Hour), now.Add(24*time.Hour), nil)
		if err != nil {
			return nil, err
		}
		out := rows[:0]
		for _, row := range rows {
			if row.Status.IsLive() {
				out = append(out, row)
			}
		}
		return out, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return cachedList(ctx, s.cache, "matches:live", load)
}

func cachedList(ctx context.Context, store *cache.Store, key string, load func(context.Context) ([]match.Match, error)) ([]match.Match, error) {
	value, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}
	rows, ok := value.([]match.Match)
	if !ok {
		return load(ctx)
	}
	return rows, nil
}
