package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
)

type statsFixture struct {
	service    *StatsIngestionService
	statsRepo  *memory.StatsRepository
	lineupRepo *memory.LineupRepository
	match      match.Match
}

func newStatsFixture(t *testing.T, provider CricketDataProvider) *statsFixture {
	t.Helper()
	ctx := context.Background()

	matchRepo := memory.NewMatchRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewTeamRepository()
	statsRepo := memory.NewStatsRepository()
	lineupRepo := memory.NewLineupRepository()

	if _, err := teamRepo.Upsert(ctx, team.Team{ExternalID: 100, TournamentID: 1, Name: "India"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	for externalID := int64(201); externalID <= 203; externalID++ {
		if _, err := playerRepo.Upsert(ctx, player.Player{ExternalID: externalID, Name: "player"}); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}

	item, err := matchRepo.Upsert(ctx, match.Match{
		ExternalID:   9001,
		TournamentID: 1,
		HomeTeamID:   1,
		AwayTeamID:   2,
		Status:       match.StatusFirstInnings,
		StartsAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}

	return &statsFixture{
		service:    NewStatsIngestionService(provider, matchRepo, playerRepo, teamRepo, statsRepo, lineupRepo, nil),
		statsRepo:  statsRepo,
		lineupRepo: lineupRepo,
		match:      item,
	}
}

func TestStatsIngestionService_IngestScoreboard_Idempotent(t *testing.T) {
	t.Parallel()

	f := newStatsFixture(t, &stubProvider{})
	ctx := context.Background()

	board := ExternalScoreboard{
		FixtureExternalID: 9001,
		Batting: []ExternalBattingLine{
			{PlayerExternalID: 201, TeamExternalID: 100, Runs: 45, BallsFaced: 30, Fours: 4, Sixes: 2},
		},
		Bowling: []ExternalBowlingLine{
			{PlayerExternalID: 202, TeamExternalID: 100, BallsBowled: 24, RunsConceded: 30, Wickets: 2},
		},
		Fielding: []ExternalFieldingLine{
			{PlayerExternalID: 203, TeamExternalID: 100, Catches: 1},
		},
	}

	if err := f.service.IngestScoreboard(ctx, f.match.ID, board); err != nil {
		t.Fatalf("first ingest error: %v", err)
	}
	if err := f.service.IngestScoreboard(ctx, f.match.ID, board); err != nil {
		t.Fatalf("second ingest error: %v", err)
	}

	rows, err := f.statsRepo.ListByMatch(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("replay must not add rows: got=%d want=3", len(rows))
	}

	batter, found, err := f.statsRepo.GetByMatchAndPlayer(ctx, f.match.ID, 1)
	if err != nil || !found {
		t.Fatalf("load batter row: found=%v err=%v", found, err)
	}
	if batter.Batting.Runs != 45 || batter.Batting.Fours != 4 {
		t.Fatalf("unexpected batting line: %+v", batter.Batting)
	}
}

func TestStatsIngestionService_IngestScoreboard_DisciplinesStayIndependent(t *testing.T) {
	t.Parallel()

	f := newStatsFixture(t, &stubProvider{})
	ctx := context.Background()

	first := ExternalScoreboard{
		Batting: []ExternalBattingLine{
			{PlayerExternalID: 201, TeamExternalID: 100, Runs: 45, BallsFaced: 30},
		},
	}
	if err := f.service.IngestScoreboard(ctx, f.match.ID, first); err != nil {
		t.Fatalf("batting ingest error: %v", err)
	}

	// The all-rounder's bowling arrives later; the stored batting line must
	// survive the write.
	second := ExternalScoreboard{
		Bowling: []ExternalBowlingLine{
			{PlayerExternalID: 201, TeamExternalID: 100, BallsBowled: 12, RunsConceded: 8, Wickets: 1},
		},
	}
	if err := f.service.IngestScoreboard(ctx, f.match.ID, second); err != nil {
		t.Fatalf("bowling ingest error: %v", err)
	}

	row, found, err := f.statsRepo.GetByMatchAndPlayer(ctx, f.match.ID, 1)
	if err != nil || !found {
		t.Fatalf("load row: found=%v err=%v", found, err)
	}
	if row.Batting.Runs != 45 {
		t.Fatalf("batting line was disturbed: %+v", row.Batting)
	}
	if row.Bowling.Wickets != 1 {
		t.Fatalf("bowling line missing: %+v", row.Bowling)
	}
}

func TestStatsIngestionService_IngestScoreboard_DotPairsFromDeliveries(t *testing.T) {
	t.Parallel()

	dot := ExternalDelivery{BowlerExternalID: 202}
	provider := &stubProvider{
		deliveries: map[int64][]ExternalDelivery{
			9001: {dot, dot, dot, dot, dot, dot},
		},
	}
	f := newStatsFixture(t, provider)
	ctx := context.Background()

	board := ExternalScoreboard{
		Bowling: []ExternalBowlingLine{
			{PlayerExternalID: 202, TeamExternalID: 100, BallsBowled: 6, RunsConceded: 0, Maidens: 1},
		},
	}
	if err := f.service.IngestScoreboard(ctx, f.match.ID, board); err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	row, found, err := f.statsRepo.GetByMatchAndPlayer(ctx, f.match.ID, 2)
	if err != nil || !found {
		t.Fatalf("load row: found=%v err=%v", found, err)
	}
	if row.Bowling.DotBalls != 6 {
		t.Fatalf("unexpected dot count: got=%d want=6", row.Bowling.DotBalls)
	}
	if row.Bowling.DotBallPairs != 3 {
		t.Fatalf("six consecutive dots form three pairs: got=%d", row.Bowling.DotBallPairs)
	}
}

func TestStatsIngestionService_IngestBallEvents_PatchesDotCounts(t *testing.T) {
	t.Parallel()

	f := newStatsFixture(t, &stubProvider{})
	ctx := context.Background()

	board := ExternalScoreboard{
		Bowling: []ExternalBowlingLine{
			{PlayerExternalID: 202, TeamExternalID: 100, BallsBowled: 24, RunsConceded: 18, Wickets: 1},
		},
	}
	if err := f.service.IngestScoreboard(ctx, f.match.ID, board); err != nil {
		t.Fatalf("ingest scoreboard: %v", err)
	}

	dot := ExternalDelivery{BowlerExternalID: 202}
	scoring := ExternalDelivery{BowlerExternalID: 202, Runs: 4}
	balls := []ExternalDelivery{dot, dot, dot, scoring, dot, dot, dot}

	if err := f.service.IngestBallEvents(ctx, f.match.ID, balls); err != nil {
		t.Fatalf("ingest ball events: %v", err)
	}

	row, found, err := f.statsRepo.GetByMatchAndPlayer(ctx, f.match.ID, 2)
	if err != nil || !found {
		t.Fatalf("load row: found=%v err=%v", found, err)
	}
	if row.Bowling.DotBalls != 6 {
		t.Fatalf("unexpected dot count: got=%d want=6", row.Bowling.DotBalls)
	}
	if row.Bowling.DotBallPairs != 2 {
		t.Fatalf("pair streak resets on scoring balls: got=%d want=2", row.Bowling.DotBallPairs)
	}
	if row.Bowling.Wickets != 1 || row.Bowling.BallsBowled != 24 {
		t.Fatalf("ball events must not clobber the stored bowling line: %+v", row.Bowling)
	}
}

func TestStatsIngestionService_IngestBallEvents_SkipsUnmappedBowlers(t *testing.T) {
	t.Parallel()

	f := newStatsFixture(t, &stubProvider{})
	ctx := context.Background()

	balls := []ExternalDelivery{{BowlerExternalID: 999}, {BowlerExternalID: 999}}
	if err := f.service.IngestBallEvents(ctx, f.match.ID, balls); err != nil {
		t.Fatalf("ingest ball events: %v", err)
	}

	rows, err := f.statsRepo.ListByMatch(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("unmapped bowlers must be skipped: got=%d rows", len(rows))
	}
}

func TestStatsIngestionService_IngestScoreboard_SkipsUnmappedPlayers(t *testing.T) {
	t.Parallel()

	f := newStatsFixture(t, &stubProvider{})
	ctx := context.Background()

	board := ExternalScoreboard{
		Batting: []ExternalBattingLine{
			{PlayerExternalID: 201, TeamExternalID: 100, Runs: 12},
			{PlayerExternalID: 999, TeamExternalID: 100, Runs: 30},
		},
	}
	if err := f.service.IngestScoreboard(ctx, f.match.ID, board); err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	rows, err := f.statsRepo.ListByMatch(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("unmapped players must be skipped: got=%d rows want=1", len(rows))
	}
}

func TestStatsIngestionService_IngestScoreboard_ReplacesLineup(t *testing.T) {
	t.Parallel()

	f := newStatsFixture(t, &stubProvider{})
	ctx := context.Background()

	board := ExternalScoreboard{
		Lineups: []ExternalLineupEntry{
			{PlayerExternalID: 201, TeamExternalID: 100, Status: "playing_xi", IsCaptain: true},
			{PlayerExternalID: 202, TeamExternalID: 100, Status: "bench"},
		},
	}
	if err := f.service.IngestScoreboard(ctx, f.match.ID, board); err != nil {
		t.Fatalf("ingest error: %v", err)
	}

	entries, err := f.lineupRepo.ListLineup(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("list lineup: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("unexpected lineup size: got=%d want=2", len(entries))
	}
	if entries[0].Status != stats.LineupStarting || !entries[0].IsCaptain {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Status != stats.LineupSubstitute {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

// faultyStatsRepo fails bowling writes on demand so ingestion rollback can be
// observed.
type faultyStatsRepo struct {
	*memory.StatsRepository
	failBowling bool
}

func (r *faultyStatsRepo) UpsertBowling(ctx context.Context, matchID, playerID, teamID int64, line stats.Bowling) error {
	if r.failBowling {
		return errors.New("connection reset by peer")
	}
	return r.StatsRepository.UpsertBowling(ctx, matchID, playerID, teamID, line)
}

func (r *faultyStatsRepo) InTx(ctx context.Context, fn func(stats.Repository) error) error {
	return r.StatsRepository.InTx(ctx, func(stats.Repository) error { return fn(r) })
}

func TestStatsIngestionService_IngestScoreboard_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := memory.NewMatchRepository()
	playerRepo := memory.NewPlayerRepository()
	teamRepo := memory.NewTeamRepository()
	statsRepo := &faultyStatsRepo{StatsRepository: memory.NewStatsRepository(), failBowling: true}

	if _, err := teamRepo.Upsert(ctx, team.Team{ExternalID: 100, TournamentID: 1, Name: "India"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	for externalID := int64(201); externalID <= 202; externalID++ {
		if _, err := playerRepo.Upsert(ctx, player.Player{ExternalID: externalID, Name: "player"}); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}
	item, err := matchRepo.Upsert(ctx, match.Match{
		ExternalID: 9001, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
		Status: match.StatusFirstInnings, StartsAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}

	service := NewStatsIngestionService(&stubProvider{}, matchRepo, playerRepo, teamRepo, statsRepo, memory.NewLineupRepository(), nil)

	board := ExternalScoreboard{
		FixtureExternalID: 9001,
		Batting: []ExternalBattingLine{
			{PlayerExternalID: 201, TeamExternalID: 100, Runs: 45, BallsFaced: 30},
		},
		Bowling: []ExternalBowlingLine{
			{PlayerExternalID: 202, TeamExternalID: 100, BallsBowled: 24, RunsConceded: 30, Wickets: 2},
		},
	}

	if err := service.IngestScoreboard(ctx, item.ID, board); err == nil {
		t.Fatal("ingest must fail when a line cannot be written")
	}

	rows, err := statsRepo.ListByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("failed ingest must leave no partial rows: got=%d", len(rows))
	}

	// The same board lands whole once the write path recovers.
	statsRepo.failBowling = false
	if err := service.IngestScoreboard(ctx, item.ID, board); err != nil {
		t.Fatalf("recovered ingest error: %v", err)
	}
	rows, err = statsRepo.ListByMatch(ctx, item.ID)
	if err != nil {
		t.Fatalf("list stats after recovery: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected rows after recovery: got=%d want=2", len(rows))
	}
}
