package fantasy

import (
	"strings"
	"testing"
)

func buildPicks() []Pick {
	picks := make([]Pick, TeamSize)
	for i := range picks {
		picks[i] = Pick{PlayerID: int64(i + 1)}
	}
	picks[0].IsCaptain = true
	picks[1].IsViceCaptain = true
	return picks
}

func TestTeam_Validate(t *testing.T) {
	t.Parallel()

	base := Team{UserID: 7, MatchID: 3, Name: "my eleven", Picks: buildPicks()}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestTeam_Validate_Bench(t *testing.T) {
	t.Parallel()

	picks := buildPicks()
	for i := 0; i < MaxSubstitutes; i++ {
		picks = append(picks, Pick{PlayerID: int64(100 + i), IsSubstitute: true})
	}
	team := Team{UserID: 7, MatchID: 3, Name: "with a bench", Picks: picks}
	if err := team.Validate(); err != nil {
		t.Fatalf("Validate error for a full bench: %v", err)
	}

	over := append(picks, Pick{PlayerID: 200, IsSubstitute: true})
	team.Picks = over
	if err := team.Validate(); err == nil || !strings.Contains(err.Error(), "at most") {
		t.Fatalf("expected bench size rejection, got: %v", err)
	}

	capped := buildPicks()
	capped = append(capped, Pick{PlayerID: 100, IsSubstitute: true, IsViceCaptain: true})
	capped[1].IsViceCaptain = true
	team.Picks = capped
	if err := team.Validate(); err == nil || !strings.Contains(err.Error(), "captaincy") {
		t.Fatalf("expected substitute captaincy rejection, got: %v", err)
	}
}

func TestTeam_Validate_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Team)
		wantMsg string
	}{
		{
			name:    "short lineup",
			mutate:  func(tm *Team) { tm.Picks = tm.Picks[:10] },
			wantMsg: "exactly 11 starters",
		},
		{
			name:    "duplicate player",
			mutate:  func(tm *Team) { tm.Picks[10].PlayerID = tm.Picks[0].PlayerID },
			wantMsg: "more than once",
		},
		{
			name:    "no captain",
			mutate:  func(tm *Team) { tm.Picks[0].IsCaptain = false },
			wantMsg: "exactly one captain",
		},
		{
			name: "two vice captains",
			mutate: func(tm *Team) {
				tm.Picks[2].IsViceCaptain = true
			},
			wantMsg: "exactly one vice captain",
		},
		{
			name: "captain doubles as vice captain",
			mutate: func(tm *Team) {
				tm.Picks[1].IsViceCaptain = false
				tm.Picks[0].IsViceCaptain = true
			},
			wantMsg: "both captain and vice captain",
		},
		{
			name:    "missing user",
			mutate:  func(tm *Team) { tm.UserID = 0 },
			wantMsg: "user id",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			team := Team{UserID: 7, MatchID: 3, Picks: buildPicks()}
			tc.mutate(&team)
			err := team.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("unexpected error: got=%v want substring %q", err, tc.wantMsg)
			}
		})
	}
}
