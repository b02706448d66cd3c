package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
)

func TestCreditsFromAverage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		average string
		want    string
	}{
		{name: "no points floors at the minimum", average: "0", want: "7"},
		{name: "negative average clamps to the floor", average: "-40", want: "6.5"},
		{name: "steady performer", average: "30", want: "8.5"},
		{name: "rounded to the half credit grid", average: "34", want: "8.5"},
		{name: "star clamps at the ceiling", average: "200", want: "11"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := creditsFromAverage(pts(tc.average))
			if !got.Equal(pts(tc.want)) {
				t.Fatalf("creditsFromAverage(%s): got=%s want=%s", tc.average, got, tc.want)
			}
		})
	}
}

func TestRatingService_RecomputeAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	statsRepo := memory.NewStatsRepository()
	scoringRepo := memory.NewScoringRepository()
	fantasyRepo := memory.NewFantasyTeamRepository()

	seeded, err := playerRepo.Upsert(ctx, player.Player{ExternalID: 201, Name: "steady batter"})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}
	benched, err := playerRepo.Upsert(ctx, player.Player{ExternalID: 202, Name: "out of the side"})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}

	for i, startsAt := range []time.Time{time.Now().Add(-48 * time.Hour), time.Now().Add(-24 * time.Hour)} {
		item, err := matchRepo.Upsert(ctx, match.Match{
			ExternalID: int64(9001 + i), TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2, StartsAt: startsAt,
		})
		if err != nil {
			t.Fatalf("seed match: %v", err)
		}
		if err := matchRepo.UpdateState(ctx, item.ID, match.StatusFinished, nil, nil); err != nil {
			t.Fatalf("finish match: %v", err)
		}
	}

	// Two matches at 30 and 50 batting points: average 40, credits 9.
	if err := statsRepo.UpsertBatting(ctx, 1, seeded.ID, 1, stats.Batting{Runs: 30, BallsFaced: 30, NotOut: true}); err != nil {
		t.Fatalf("seed match one: %v", err)
	}
	if err := statsRepo.UpsertBatting(ctx, 2, seeded.ID, 1, stats.Batting{Runs: 50, BallsFaced: 40}); err != nil {
		t.Fatalf("seed match two: %v", err)
	}
	// The benched player only appears in the older match.
	if err := statsRepo.UpsertBatting(ctx, 1, benched.ID, 1, stats.Batting{Runs: 12, BallsFaced: 10}); err != nil {
		t.Fatalf("seed benched stats: %v", err)
	}

	// Two lineups for the latest match, one of them picking the batter.
	for userID, playerID := range map[int64]int64{1: seeded.ID, 2: 999} {
		if _, err := fantasyRepo.Save(ctx, fantasy.Team{
			UserID: userID, MatchID: 2, Picks: []fantasy.Pick{{PlayerID: playerID, IsCaptain: true}},
		}); err != nil {
			t.Fatalf("seed fantasy team: %v", err)
		}
	}

	service := NewRatingService(nil, playerRepo, matchRepo, statsRepo, scoringRepo, fantasyRepo, RatingConfig{PoolSize: 2, RecentMatches: 10}, nil)
	if err := service.RecomputeAll(ctx); err != nil {
		t.Fatalf("RecomputeAll error: %v", err)
	}

	got, found, err := playerRepo.GetByID(ctx, seeded.ID)
	if err != nil || !found {
		t.Fatalf("load player: found=%v err=%v", found, err)
	}
	// Match one: 30 runs. Match two: 50 runs + half century 8 = 58.
	// Average (30+58)/2 = 44, credits 7 + 44/20 = 9.2 -> 9 on the grid.
	if !got.Points.Equal(pts("44")) {
		t.Fatalf("unexpected average points: got=%s want=44", got.Points)
	}
	if !got.Credits.Equal(pts("9")) {
		t.Fatalf("unexpected credits: got=%s want=9", got.Credits)
	}
	if !got.PlayedLastMatch {
		t.Fatal("a stat line in the latest finished match should mark participation")
	}
	// One of two lineups across the recent matches picked the batter.
	if !got.SelectedByPct.Equal(pts("50")) {
		t.Fatalf("unexpected selection share: got=%s want=50", got.SelectedByPct)
	}

	missed, found, err := playerRepo.GetByID(ctx, benched.ID)
	if err != nil || !found {
		t.Fatalf("load benched player: found=%v err=%v", found, err)
	}
	if missed.PlayedLastMatch {
		t.Fatal("no stat line in the latest finished match must clear participation")
	}
	if !missed.SelectedByPct.IsZero() {
		t.Fatalf("unpicked player selection share must be zero, got=%s", missed.SelectedByPct)
	}
}

func TestRatingService_SeedsNewPlayerFromCareer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	statsRepo := memory.NewStatsRepository()
	scoringRepo := memory.NewScoringRepository()

	debutant, err := playerRepo.Upsert(ctx, player.Player{ExternalID: 301, Name: "overseas signing"})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}

	provider := &stubProvider{
		careers: map[int64][]ExternalCareerStat{
			301: {
				{PlayerExternalID: 301, Season: "2025", Format: "t20", Matches: 20, Runs: 600, BallsFaced: 500},
				{PlayerExternalID: 301, Season: "2024", Format: "t20", Matches: 10, Runs: 300, BallsFaced: 250},
			},
		},
	}

	service := NewRatingService(provider, playerRepo, matchRepo, statsRepo, scoringRepo, nil, RatingConfig{PoolSize: 2, RecentMatches: 10}, nil)
	if err := service.RecomputeAll(ctx); err != nil {
		t.Fatalf("RecomputeAll error: %v", err)
	}

	got, found, err := playerRepo.GetByID(ctx, debutant.ID)
	if err != nil || !found {
		t.Fatalf("load player: found=%v err=%v", found, err)
	}
	// Career collapses to 30 runs per match: 30 points, credits 7 + 30/20 = 8.5.
	if !got.Points.Equal(pts("30")) {
		t.Fatalf("unexpected career-seeded points: got=%s want=30", got.Points)
	}
	if !got.Credits.Equal(pts("8.5")) {
		t.Fatalf("unexpected career-seeded credits: got=%s want=8.5", got.Credits)
	}
	if got.PlayedLastMatch {
		t.Fatal("career seeding must not mark last match participation")
	}
	if !got.SelectedByPct.IsZero() {
		t.Fatalf("career-seeded selection share must be zero, got=%s", got.SelectedByPct)
	}
}
