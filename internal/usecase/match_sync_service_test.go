package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
)

type recordingSettler struct {
	calls []int64
}

func (s *recordingSettler) OnMatchFinished(_ context.Context, matchID int64) error {
	s.calls = append(s.calls, matchID)
	return nil
}

type recordingIngestor struct {
	calls int
}

func (i *recordingIngestor) IngestScoreboard(context.Context, int64, ExternalScoreboard) error {
	i.calls++
	return nil
}

type matchSyncFixture struct {
	service   *MatchSyncService
	matchRepo *memory.MatchRepository
	provider  *stubProvider
	settler   *recordingSettler
	ingestor  *recordingIngestor
	match     match.Match
}

func newMatchSyncFixture(t *testing.T, status match.Status) *matchSyncFixture {
	t.Helper()
	ctx := context.Background()

	tournamentRepo := memory.NewTournamentRepository()
	teamRepo := memory.NewTeamRepository()
	matchRepo := memory.NewMatchRepository()
	provider := &stubProvider{scoreboards: map[int64]ExternalScoreboard{}}
	settler := &recordingSettler{}
	ingestor := &recordingIngestor{}

	if _, err := tournamentRepo.Upsert(ctx, tournament.Tournament{ExternalID: 1, Name: "World Cup", Season: "2026"}); err != nil {
		t.Fatalf("seed tournament: %v", err)
	}
	if _, err := teamRepo.Upsert(ctx, team.Team{ExternalID: 100, TournamentID: 1, Name: "India"}); err != nil {
		t.Fatalf("seed home team: %v", err)
	}
	if _, err := teamRepo.Upsert(ctx, team.Team{ExternalID: 101, TournamentID: 1, Name: "Australia"}); err != nil {
		t.Fatalf("seed away team: %v", err)
	}

	item, err := matchRepo.Upsert(ctx, match.Match{
		ExternalID:   9001,
		TournamentID: 1,
		HomeTeamID:   1,
		AwayTeamID:   2,
		Title:        "IND vs AUS",
		StartsAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	if status != match.StatusNotStarted {
		if err := matchRepo.UpdateState(ctx, item.ID, status, nil, nil); err != nil {
			t.Fatalf("seed match status: %v", err)
		}
		item.Status = status
	}

	service := NewMatchSyncService(provider, tournamentRepo, teamRepo, matchRepo, ingestor, settler, MatchSyncConfig{
		Enabled:   true,
		LookBack:  48 * time.Hour,
		LookAhead: 168 * time.Hour,
	}, nil)

	return &matchSyncFixture{
		service:   service,
		matchRepo: matchRepo,
		provider:  provider,
		settler:   settler,
		ingestor:  ingestor,
		match:     item,
	}
}

func TestMatchSyncService_RefreshMatch_MirrorsProviderCorrections(t *testing.T) {
	t.Parallel()

	f := newMatchSyncFixture(t, match.StatusSecondInnings)
	ctx := context.Background()

	// The provider re-publishes an earlier innings; its view of a running
	// fixture wins.
	f.provider.scoreboards[9001] = ExternalScoreboard{Status: "1st Innings"}

	if err := f.service.RefreshMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("RefreshMatch error: %v", err)
	}

	stored, found, err := f.matchRepo.GetByID(ctx, f.match.ID)
	if err != nil || !found {
		t.Fatalf("load match: found=%v err=%v", found, err)
	}
	if stored.Status != match.StatusFirstInnings {
		t.Fatalf("provider correction not mirrored: got=%s want=%s", stored.Status, match.StatusFirstInnings)
	}
}

func TestMatchSyncService_RefreshMatch_SettledMatchStaysSettled(t *testing.T) {
	t.Parallel()

	f := newMatchSyncFixture(t, match.StatusFinished)
	ctx := context.Background()

	f.provider.scoreboards[9001] = ExternalScoreboard{Status: "2nd Innings"}

	if err := f.service.RefreshMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("RefreshMatch error: %v", err)
	}

	stored, found, err := f.matchRepo.GetByID(ctx, f.match.ID)
	if err != nil || !found {
		t.Fatalf("load match: found=%v err=%v", found, err)
	}
	if stored.Status != match.StatusFinished {
		t.Fatalf("terminal status must absorb provider updates: got=%s", stored.Status)
	}
}

func TestMatchSyncService_RefreshMatch_EndsAtStampedOnce(t *testing.T) {
	t.Parallel()

	f := newMatchSyncFixture(t, match.StatusSecondInnings)
	ctx := context.Background()

	firstFinish := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return firstFinish }
	f.provider.scoreboards[9001] = ExternalScoreboard{Status: "Finished"}

	if err := f.service.RefreshMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("first refresh error: %v", err)
	}

	stored, _, err := f.matchRepo.GetByID(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if stored.EndsAt == nil || !stored.EndsAt.Equal(firstFinish) {
		t.Fatalf("ends-at not stamped on the terminal transition: %v", stored.EndsAt)
	}

	// A later pass over the finished match must not touch the timestamp.
	f.service.now = func() time.Time { return firstFinish.Add(2 * time.Hour) }
	if err := f.service.RefreshMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("second refresh error: %v", err)
	}
	stored, _, err = f.matchRepo.GetByID(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	if !stored.EndsAt.Equal(firstFinish) {
		t.Fatalf("ends-at was overwritten: got=%v want=%v", stored.EndsAt, firstFinish)
	}
}

func TestMatchSyncService_RefreshMatch_SettlesOnlyNewFinishes(t *testing.T) {
	t.Parallel()

	f := newMatchSyncFixture(t, match.StatusSecondInnings)
	ctx := context.Background()

	f.provider.scoreboards[9001] = ExternalScoreboard{Status: "Finished"}

	if err := f.service.RefreshMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("first refresh error: %v", err)
	}
	if err := f.service.RefreshMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("second refresh error: %v", err)
	}

	if len(f.settler.calls) != 1 {
		t.Fatalf("settlement must run once per finish: got=%d calls", len(f.settler.calls))
	}
	if f.settler.calls[0] != f.match.ID {
		t.Fatalf("unexpected settled match: got=%d want=%d", f.settler.calls[0], f.match.ID)
	}
}

func TestMatchSyncService_RefreshMatch_IngestsLiveScoreboards(t *testing.T) {
	t.Parallel()

	f := newMatchSyncFixture(t, match.StatusFirstInnings)
	ctx := context.Background()

	f.provider.scoreboards[9001] = ExternalScoreboard{
		Status: "1st Innings",
		Innings: []ExternalInningsScore{
			{TeamExternalID: 100, Innings: 1, Runs: 120, Wickets: 3, Overs: "14.2"},
		},
	}

	if err := f.service.RefreshMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("RefreshMatch error: %v", err)
	}
	if f.ingestor.calls != 1 {
		t.Fatalf("live scoreboard should be ingested: got=%d calls", f.ingestor.calls)
	}

	stored, _, err := f.matchRepo.GetByID(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if stored.Scorecard == nil || len(stored.Scorecard.Scores) != 1 {
		t.Fatalf("scorecard missing: %+v", stored.Scorecard)
	}
	if stored.Scorecard.Scores[0].Runs != 120 {
		t.Fatalf("unexpected innings runs: got=%d want=120", stored.Scorecard.Scores[0].Runs)
	}
}

func TestMatchSyncService_SyncFixtures_SkipsUnmappedTeams(t *testing.T) {
	t.Parallel()

	f := newMatchSyncFixture(t, match.StatusNotStarted)
	ctx := context.Background()

	starts := time.Now().UTC().Add(24 * time.Hour)
	f.provider.fixtures = map[int64][]ExternalFixture{
		1: {
			{ExternalID: 9100, TournamentExternalID: 1, HomeTeamExternalID: 100, AwayTeamExternalID: 101, Title: "IND vs AUS", Status: "NS", StartsAt: starts},
			{ExternalID: 9101, TournamentExternalID: 1, HomeTeamExternalID: 100, AwayTeamExternalID: 555, Title: "IND vs ???", Status: "NS", StartsAt: starts},
		},
	}

	if err := f.service.SyncFixtures(ctx, 1); err != nil {
		t.Fatalf("SyncFixtures error: %v", err)
	}

	if _, found, err := f.matchRepo.GetByExternalID(ctx, 9100); err != nil || !found {
		t.Fatalf("mapped fixture missing: found=%v err=%v", found, err)
	}
	if _, found, _ := f.matchRepo.GetByExternalID(ctx, 9101); found {
		t.Fatal("fixture with an unmapped team must be skipped")
	}
}

func TestMatchSyncService_SyncWindow_SkipsTerminalMatches(t *testing.T) {
	t.Parallel()

	f := newMatchSyncFixture(t, match.StatusFinished)
	ctx := context.Background()

	if err := f.service.SyncWindow(ctx); err != nil {
		t.Fatalf("SyncWindow error: %v", err)
	}
	if f.provider.scoreboardCalls != 0 {
		t.Fatalf("terminal matches must not be refreshed: got=%d calls", f.provider.scoreboardCalls)
	}
}
