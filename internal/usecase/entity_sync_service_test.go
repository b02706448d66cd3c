package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/team"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
)

func TestEntitySyncService_SyncTournaments(t *testing.T) {
	t.Parallel()

	tournamentRepo := memory.NewTournamentRepository()
	provider := &stubProvider{
		tournaments: []ExternalTournament{
			{ExternalID: 1, Name: "World Cup", Season: "2026", Status: "ongoing"},
			{ExternalID: 2, Name: "", Season: "2026", Status: "ongoing"},
		},
	}

	service := NewEntitySyncService(provider, tournamentRepo, memory.NewTeamRepository(), memory.NewPlayerRepository(), EntitySyncConfig{Enabled: true}, nil)
	ctx := context.Background()

	if err := service.SyncTournaments(ctx); err != nil {
		t.Fatalf("SyncTournaments error: %v", err)
	}

	stored, found, err := tournamentRepo.GetByExternalID(ctx, 1)
	if err != nil || !found {
		t.Fatalf("load tournament: found=%v err=%v", found, err)
	}
	if stored.Name != "World Cup" {
		t.Fatalf("unexpected name: got=%s", stored.Name)
	}

	// The nameless row is invalid and must be skipped, not fail the pass.
	if _, found, _ := tournamentRepo.GetByExternalID(ctx, 2); found {
		t.Fatal("invalid tournament row must be skipped")
	}

	// A second pass converges instead of duplicating.
	if err := service.SyncTournaments(ctx); err != nil {
		t.Fatalf("second SyncTournaments error: %v", err)
	}
	rows, err := tournamentRepo.List(ctx, "", 100, 0)
	if err != nil {
		t.Fatalf("list tournaments: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("replay must not duplicate rows: got=%d want=1", len(rows))
	}
}

func TestEntitySyncService_SyncSquads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := memory.NewTournamentRepository()
	teamRepo := memory.NewTeamRepository()
	playerRepo := memory.NewPlayerRepository()

	tour, err := tournamentRepo.Upsert(ctx, tournament.Tournament{ExternalID: 1, Name: "World Cup", Season: "2026"})
	if err != nil {
		t.Fatalf("seed tournament: %v", err)
	}
	seededTeam, err := teamRepo.Upsert(ctx, team.Team{ExternalID: 100, TournamentID: tour.ID, Name: "India"})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	provider := &stubProvider{
		squads: map[int64][]ExternalPlayer{
			100: {
				{ExternalID: 201, TeamExternalID: 100, Name: "opener", Role: "Batsman"},
				{ExternalID: 202, TeamExternalID: 100, Name: "keeper", Role: "Wicketkeeper"},
			},
		},
	}

	service := NewEntitySyncService(provider, tournamentRepo, teamRepo, playerRepo, EntitySyncConfig{Enabled: true}, nil)
	if err := service.SyncSquads(ctx, tour.ID); err != nil {
		t.Fatalf("SyncSquads error: %v", err)
	}

	squad, err := playerRepo.ListByTeamSeason(ctx, seededTeam.ID, "2026")
	if err != nil {
		t.Fatalf("list squad: %v", err)
	}
	if len(squad) != 2 {
		t.Fatalf("unexpected squad size: got=%d want=2", len(squad))
	}

	keeper, found, err := playerRepo.GetByExternalID(ctx, 202)
	if err != nil || !found {
		t.Fatalf("load keeper: found=%v err=%v", found, err)
	}
	if keeper.Role != player.RoleWicketKeeper {
		t.Fatalf("unexpected role: got=%s want=%s", keeper.Role, player.RoleWicketKeeper)
	}
}

func TestEntitySyncService_DisabledSync(t *testing.T) {
	t.Parallel()

	service := NewEntitySyncService(&stubProvider{}, memory.NewTournamentRepository(), memory.NewTeamRepository(), memory.NewPlayerRepository(), EntitySyncConfig{Enabled: false}, nil)

	err := service.SyncTournaments(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable when disabled, got: %v", err)
	}
}
