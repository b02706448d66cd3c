package stats

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBowling_Overs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		balls int
		want  string
	}{
		{name: "no balls bowled", balls: 0, want: "0"},
		{name: "part over", balls: 3, want: "0.3"},
		{name: "exact overs", balls: 24, want: "4"},
		{name: "overs and balls", balls: 27, want: "4.3"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Bowling{BallsBowled: tc.balls}.Overs()
			if got.String() != tc.want {
				t.Fatalf("unexpected overs: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestBowling_EconomyRate(t *testing.T) {
	t.Parallel()

	line := Bowling{BallsBowled: 24, RunsConceded: 32}
	if got := line.EconomyRate(); !got.Equal(decimal.RequireFromString("8")) {
		t.Fatalf("unexpected economy: got=%s want=8", got)
	}

	odd := Bowling{BallsBowled: 7, RunsConceded: 10}
	if got := odd.EconomyRate(); !got.Equal(decimal.RequireFromString("8.57")) {
		t.Fatalf("unexpected economy: got=%s want=8.57", got)
	}

	if got := (Bowling{}).EconomyRate(); !got.IsZero() {
		t.Fatalf("economy without balls bowled should be zero, got=%s", got)
	}
}

func TestBatting_StrikeRate(t *testing.T) {
	t.Parallel()

	line := Batting{Runs: 45, BallsFaced: 30}
	if got := line.StrikeRate(); !got.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("unexpected strike rate: got=%s want=150", got)
	}
	if got := (Batting{Runs: 10}).StrikeRate(); !got.IsZero() {
		t.Fatalf("strike rate without balls faced should be zero, got=%s", got)
	}
}

func TestCountDotBalls(t *testing.T) {
	t.Parallel()

	dot := Delivery{}
	single := Delivery{Runs: 1}
	wide := Delivery{IsWide: true}

	cases := []struct {
		name       string
		deliveries []Delivery
		wantDots   int
		wantPairs  int
	}{
		{
			name:       "six consecutive dots form three pairs",
			deliveries: []Delivery{dot, dot, dot, dot, dot, dot},
			wantDots:   6,
			wantPairs:  3,
		},
		{
			name:       "three consecutive dots form one pair",
			deliveries: []Delivery{dot, dot, dot},
			wantDots:   3,
			wantPairs:  1,
		},
		{
			name:       "scoring ball resets the streak",
			deliveries: []Delivery{dot, single, dot, single, dot},
			wantDots:   3,
			wantPairs:  0,
		},
		{
			name:       "wide is not a dot and resets the streak",
			deliveries: []Delivery{dot, wide, dot},
			wantDots:   2,
			wantPairs:  0,
		},
		{
			name:       "byes are runs conceded",
			deliveries: []Delivery{dot, {Byes: 1}, dot, dot},
			wantDots:   3,
			wantPairs:  1,
		},
		{
			name:      "no deliveries",
			wantDots:  0,
			wantPairs: 0,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dots, pairs := CountDotBalls(tc.deliveries)
			if dots != tc.wantDots || pairs != tc.wantPairs {
				t.Fatalf("unexpected counts: got dots=%d pairs=%d want dots=%d pairs=%d",
					dots, pairs, tc.wantDots, tc.wantPairs)
			}
		})
	}
}
