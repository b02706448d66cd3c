package cricketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOversNotationToBalls(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"4", 24},
		{"4.0", 24},
		{"4.3", 27},
		{"10.5", 65},
		{"4.7", 0},
		{"bad", 0},
	}
	for _, tc := range cases {
		if got := oversNotationToBalls(tc.in); got != tc.want {
			t.Fatalf("overs %q: expected %d balls, got %d", tc.in, tc.want, got)
		}
	}
}

func TestFetchScoreboard_MapsLines(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/fixtures/901/scoreboard") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "token-123" {
			t.Errorf("missing api token in query")
		}
		_, _ = w.Write([]byte(`{"data":{
			"fixture_id":901,
			"status":"2nd Innings",
			"toss_won_by":11,
			"elected":"bat",
			"innings":[{"team_id":11,"number":1,"runs":184,"wickets":6,"overs":"20"}],
			"batting":[{"player_id":501,"team_id":11,"runs":72,"balls_faced":44,"fours":6,"sixes":4,"not_out":true}],
			"bowling":[{"player_id":601,"team_id":12,"overs":"4.3","maidens":1,"runs_conceded":32,"wickets":2}],
			"fielding":[{"player_id":601,"team_id":12,"catches":1}],
			"lineups":[{"player_id":501,"team_id":11,"status":"starting","is_captain":true}]
		}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "token-123",
		Timeout: 2 * time.Second,
	})

	board, err := client.FetchScoreboard(context.Background(), 901)
	if err != nil {
		t.Fatalf("fetch scoreboard: %v", err)
	}
	if board.Status != "2nd Innings" {
		t.Fatalf("unexpected status %q", board.Status)
	}
	if len(board.Batting) != 1 || board.Batting[0].Runs != 72 {
		t.Fatalf("unexpected batting lines: %+v", board.Batting)
	}
	if len(board.Bowling) != 1 || board.Bowling[0].BallsBowled != 27 {
		t.Fatalf("expected 27 balls bowled, got %+v", board.Bowling)
	}
	if len(board.Lineups) != 1 || !board.Lineups[0].IsCaptain {
		t.Fatalf("unexpected lineups: %+v", board.Lineups)
	}
}

func TestFetchPlayerCareer_MapsSeasons(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/players/501/career") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"player_id":501,"season":"2025","format":"T20","matches":14,"runs":412,"balls_faced":300,"high_score":88,"fifties":3,"wickets":2,"overs":"6.3","runs_conceded":61},
			{"season":" 2024 ","format":"ODI","matches":8,"runs":240,"balls_faced":280}
		]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "token-123",
		Timeout: 2 * time.Second,
	})

	careers, err := client.FetchPlayerCareer(context.Background(), 501)
	if err != nil {
		t.Fatalf("fetch player career: %v", err)
	}
	if len(careers) != 2 {
		t.Fatalf("expected two career rows, got %+v", careers)
	}
	if careers[0].Format != "t20" || careers[0].BallsBowled != 39 {
		t.Fatalf("unexpected first row: %+v", careers[0])
	}
	if careers[1].PlayerExternalID != 501 || careers[1].Season != "2024" {
		t.Fatalf("expected fallback player id and trimmed season, got %+v", careers[1])
	}

	if _, err := client.FetchPlayerCareer(context.Background(), 0); err == nil {
		t.Fatalf("expected error for non-positive player id")
	}
}

func TestFetchFixtures_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":77,"tournament_id":5,"home_team_id":1,"away_team_id":2,"status":"NS","starting_at":"2026-04-01 14:00:00"}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "token",
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	})

	fixtures, err := client.FetchFixtures(context.Background(), 5)
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
	if len(fixtures) != 1 || fixtures[0].ExternalID != 77 {
		t.Fatalf("unexpected fixtures: %+v", fixtures)
	}
	if fixtures[0].StartsAt.IsZero() {
		t.Fatalf("expected parsed start time")
	}
}

func TestFetchTeams_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "bad",
		Timeout:    2 * time.Second,
		MaxRetries: 3,
	})

	if _, err := client.FetchTeams(context.Background(), 5); err == nil {
		t.Fatalf("expected error for 403 response")
	}
	if calls != 1 {
		t.Fatalf("expected no retries for 403, got %d calls", calls)
	}
}

func TestSanitizeSensitiveText_RedactsToken(t *testing.T) {
	t.Parallel()

	out := sanitizeSensitiveText(`get "https://api.example.com/v2/tournaments?api_token=secret-token": dial tcp: timeout`, "secret-token")
	if strings.Contains(out, "secret-token") {
		t.Fatalf("expected token to be redacted, got %q", out)
	}
}
