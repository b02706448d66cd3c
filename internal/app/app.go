package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/ovrplay/fantasy-cricket/external/cricketdata"
	"github.com/ovrplay/fantasy-cricket/internal/config"
	"github.com/ovrplay/fantasy-cricket/internal/domain/content"
	"github.com/ovrplay/fantasy-cricket/internal/domain/contest"
	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/scoring"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/domain/wallet"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/ovrplay/fantasy-cricket/internal/interfaces/httpapi"
	"github.com/ovrplay/fantasy-cricket/internal/platform/cache"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
	"github.com/ovrplay/fantasy-cricket/internal/platform/resilience"
	"github.com/ovrplay/fantasy-cricket/internal/usecase"
)

type repositories struct {
	tournaments tournament.Repository
	teams       team.Repository
	players     player.Repository
	matches     match.Repository
	stats       stats.Repository
	lineups     stats.LineupRepository
	scoring     scoring.Repository
	fantasy     fantasy.Repository
	contests    contest.Repository
	wallets     wallet.Repository
	content     content.Repository
}

// NewHTTPServer wires storage, the provider client, and every service into a
// ready-to-run HTTP server. The returned cleanup closes the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store := buildCache(cfg)

	provider := cricketdata.NewClient(cricketdata.ClientConfig{
		BaseURL:    cfg.CricketDataBaseURL,
		Token:      cfg.CricketDataToken,
		Timeout:    cfg.CricketDataTimeout,
		MaxRetries: cfg.CricketDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CricketDataCircuitEnabled,
			FailureThreshold: cfg.CricketDataCircuitFailureCount,
			OpenTimeout:      cfg.CricketDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricketDataCircuitHalfOpenMaxReq,
		},
	})

	matchSvc := usecase.NewMatchService(repos.tournaments, repos.matches, logger).WithCache(store)
	playerSvc := usecase.NewPlayerService(repos.players, repos.teams, repos.stats, logger)
	fantasySvc := usecase.NewFantasyTeamService(repos.fantasy, repos.matches, repos.lineups, repos.players, repos.tournaments, logger)
	pointsSvc := usecase.NewPointsService(repos.stats, repos.lineups, repos.scoring, repos.fantasy, cfg.RatingPoolSize, logger)
	contestSvc := usecase.NewContestService(repos.contests, repos.matches, repos.fantasy, repos.wallets, pointsSvc, logger)
	walletSvc := usecase.NewWalletService(repos.wallets, repos.content, logger)
	scoringSvc := usecase.NewScoringService(repos.scoring, logger).WithCache(store)
	contentSvc := usecase.NewContentService(repos.content, logger)

	statsSvc := usecase.NewStatsIngestionService(provider, repos.matches, repos.players, repos.teams, repos.stats, repos.lineups, logger)
	entitySync := usecase.NewEntitySyncService(provider, repos.tournaments, repos.teams, repos.players, usecase.EntitySyncConfig{
		Enabled:   cfg.CricketDataEnabled,
		CallDelay: cfg.SyncCallDelay,
	}, logger)
	matchSync := usecase.NewMatchSyncService(provider, repos.tournaments, repos.teams, repos.matches, statsSvc, contestSvc, usecase.MatchSyncConfig{
		Enabled:   cfg.CricketDataEnabled,
		CallDelay: cfg.SyncCallDelay,
		LookBack:  cfg.SyncLookBack,
		LookAhead: cfg.SyncLookAhead,
	}, logger)
	ratingSvc := usecase.NewRatingService(provider, repos.players, repos.matches, repos.stats, repos.scoring, repos.fantasy, usecase.RatingConfig{
		PoolSize:      cfg.RatingPoolSize,
		RecentMatches: cfg.RatingRecentMatches,
	}, logger)

	handler := httpapi.NewHandler(
		matchSvc,
		playerSvc,
		fantasySvc,
		contestSvc,
		walletSvc,
		scoringSvc,
		contentSvc,
		entitySync,
		matchSync,
		ratingSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken, cfg.AdminAPIToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, func() error { cleanup(); return nil }, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(), error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("database url empty, using in-memory repositories")
		return memoryRepositories(), func() {}, nil
	}

	db, err := connectDB(cfg)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		tournaments: postgres.NewTournamentRepository(db),
		teams:       postgres.NewTeamRepository(db),
		players:     postgres.NewPlayerRepository(db),
		matches:     postgres.NewMatchRepository(db),
		stats:       postgres.NewStatsRepository(db),
		lineups:     postgres.NewLineupRepository(db),
		scoring:     postgres.NewScoringRepository(db),
		fantasy:     postgres.NewFantasyTeamRepository(db),
		contests:    postgres.NewContestRepository(db),
		wallets:     postgres.NewWalletRepository(db),
		content:     postgres.NewContentRepository(db),
	}, func() { _ = db.Close() }, nil
}

func memoryRepositories() repositories {
	return repositories{
		tournaments: memory.NewTournamentRepository(),
		teams:       memory.NewTeamRepository(),
		players:     memory.NewPlayerRepository(),
		matches:     memory.NewMatchRepository(),
		stats:       memory.NewStatsRepository(),
		lineups:     memory.NewLineupRepository(),
		scoring:     memory.NewScoringRepository(),
		fantasy:     memory.NewFantasyTeamRepository(),
		contests:    memory.NewContestRepository(),
		wallets:     memory.NewWalletRepository(),
		content:     memory.NewContentRepository(),
	}
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func buildCache(cfg config.Config) *cache.Store {
	if !cfg.CacheEnabled {
		return nil
	}
	return cache.NewStore(cfg.CacheTTL)
}
