package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
	"github.com/ovrplay/fantasy-cricket/internal/usecase"
)

const (
	testAdminToken = "admin-token"
	testJobToken   = "job-token"
)

type testEnv struct {
	router      http.Handler
	matches     match.Repository
	players     *memory.PlayerRepository
	tournaments *memory.TournamentRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logging.NewNop()

	tournamentRepo := memory.NewTournamentRepository()
	teamRepo := memory.NewTeamRepository()
	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	statsRepo := memory.NewStatsRepository()
	lineupRepo := memory.NewLineupRepository()
	scoringRepo := memory.NewScoringRepository()
	fantasyRepo := memory.NewFantasyTeamRepository()
	contestRepo := memory.NewContestRepository()
	walletRepo := memory.NewWalletRepository()
	contentRepo := memory.NewContentRepository()

	matchSvc := usecase.NewMatchService(tournamentRepo, matchRepo, logger)
	playerSvc := usecase.NewPlayerService(playerRepo, teamRepo, statsRepo, logger)
	fantasySvc := usecase.NewFantasyTeamService(fantasyRepo, matchRepo, lineupRepo, playerRepo, tournamentRepo, logger)
	pointsSvc := usecase.NewPointsService(statsRepo, lineupRepo, scoringRepo, fantasyRepo, 2, logger)
	contestSvc := usecase.NewContestService(contestRepo, matchRepo, fantasyRepo, walletRepo, pointsSvc, logger)
	walletSvc := usecase.NewWalletService(walletRepo, contentRepo, logger)
	scoringSvc := usecase.NewScoringService(scoringRepo, logger)
	contentSvc := usecase.NewContentService(contentRepo, logger)
	ratingSvc := usecase.NewRatingService(nil, playerRepo, matchRepo, statsRepo, scoringRepo, fantasyRepo, usecase.RatingConfig{PoolSize: 2, RecentMatches: 5}, logger)

	handler := NewHandler(
		matchSvc, playerSvc, fantasySvc, contestSvc, walletSvc,
		scoringSvc, contentSvc, nil, nil, ratingSvc, logger,
	)

	return &testEnv{
		router:      NewRouter(handler, logger, []string{"*"}, testJobToken, testAdminToken),
		matches:     matchRepo,
		players:     playerRepo,
		tournaments: tournamentRepo,
	}
}

func (e *testEnv) seedMatch(t *testing.T, status match.Status) match.Match {
	t.Helper()
	ctx := context.Background()

	tour, err := e.tournaments.Upsert(ctx, tournament.Tournament{ExternalID: 1, Name: "IPL", Season: "2026"})
	if err != nil {
		t.Fatalf("seed tournament: %v", err)
	}
	for i := int64(1); i <= 11; i++ {
		seeded, err := e.players.Upsert(ctx, player.Player{ExternalID: 200 + i, Name: "player"})
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		if err := e.players.EnsureMembership(ctx, player.Membership{PlayerID: seeded.ID, TeamID: 1, Season: tour.Season}); err != nil {
			t.Fatalf("seed membership: %v", err)
		}
	}

	item, err := e.matches.Upsert(context.Background(), match.Match{
		ExternalID:   9001,
		TournamentID: 1,
		HomeTeamID:   1,
		AwayTeamID:   2,
		Title:        "MI vs CSK",
		Format:       match.FormatT20,
		Venue:        "Wankhede",
		Status:       status,
		StartsAt:     time.Now().UTC().Add(6 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return item
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestGetMatch(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedMatch(t, match.StatusNotStarted)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/v1/matches/%d", seeded.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if got, _ := data["title"].(string); got != "MI vs CSK" {
		t.Fatalf("unexpected title: %q", got)
	}

	rec = env.do(t, http.MethodGet, "/v1/matches/999999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func saveTeamBody(matchID int64) string {
	picks := make([]string, 0, 11)
	for i := 1; i <= 11; i++ {
		pick := fmt.Sprintf(`{"playerId":%d,"isCaptain":%t,"isViceCaptain":%t}`, i, i == 1, i == 2)
		picks = append(picks, pick)
	}
	return fmt.Sprintf(`{"userId":42,"matchId":%d,"name":"My XI","picks":[%s]}`, matchID, strings.Join(picks, ","))
}

func TestSaveFantasyTeam(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedMatch(t, match.StatusNotStarted)

	rec := env.do(t, http.MethodPost, "/v1/fantasy/teams", saveTeamBody(seeded.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if got, _ := data["userId"].(float64); int64(got) != 42 {
		t.Fatalf("unexpected userId: %v", data["userId"])
	}
	picks, _ := data["picks"].([]any)
	if len(picks) != 11 {
		t.Fatalf("expected 11 picks, got %d", len(picks))
	}
}

func TestSaveFantasyTeam_FrozenAfterStart(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedMatch(t, match.StatusFirstInnings)

	rec := env.do(t, http.MethodPost, "/v1/fantasy/teams", saveTeamBody(seeded.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSaveFantasyTeam_RejectsBadShape(t *testing.T) {
	env := newTestEnv(t)
	seeded := env.seedMatch(t, match.StatusNotStarted)

	body := fmt.Sprintf(`{"userId":42,"matchId":%d,"name":"Short XI","picks":[{"playerId":1,"isCaptain":true,"isViceCaptain":false}]}`, seeded.ID)
	rec := env.do(t, http.MethodPost, "/v1/fantasy/teams", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/admin/content/banners", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/v1/admin/content/banners", "", map[string]string{"X-Admin-Token": testAdminToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminSaveBanner(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"X-Admin-Token": testAdminToken}

	body := `{"title":"Mega Contest","imageUrl":"https://cdn.example.com/banner.png","position":1,"active":true}`
	rec := env.do(t, http.MethodPost, "/v1/admin/content/banners", body, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/v1/content/banners", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Mega Contest") {
		t.Fatalf("expected banner in public list, got %s", rec.Body.String())
	}
}

func TestGetScoringRules(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/scoring/rules", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if got, _ := data["wicket"].(string); got != "25" {
		t.Fatalf("expected default wicket value 25, got %v", data["wicket"])
	}
}

func TestUpdateScoringRule(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"X-Admin-Token": testAdminToken}

	rec := env.do(t, http.MethodPut, "/v1/admin/scoring/rules", `{"rule":"six_bonus","value":"3"}`, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/v1/scoring/rules", "", nil)
	data := decodeData(t, rec)
	if got, _ := data["six_bonus"].(string); got != "3" {
		t.Fatalf("expected updated six_bonus value 3, got %v", data["six_bonus"])
	}

	rec = env.do(t, http.MethodPut, "/v1/admin/scoring/rules", `{"rule":"made_up_rule","value":"3"}`, headers)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown rule, got %d", rec.Code)
	}
}

func TestGetWallet(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/wallets/42", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if got, _ := data["balance"].(string); got != "0" {
		t.Fatalf("expected zero balance, got %v", data["balance"])
	}
}

func TestAdminAdjustWallet(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"X-Admin-Token": testAdminToken}

	rec := env.do(t, http.MethodPost, "/v1/admin/wallets/42/adjustments", `{"amount":"150.50","note":"goodwill credit"}`, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/v1/wallets/42", "", nil)
	data := decodeData(t, rec)
	if got, _ := data["balance"].(string); got != "150.5" {
		t.Fatalf("expected balance 150.5, got %v", data["balance"])
	}
}
