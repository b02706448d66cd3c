package contest

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestContest_Validate_FreeContestFillsZeroTiers(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:    1,
		EntryFee:   decimal.Zero,
		PrizePool:  money("500"),
		TotalSpots: 100,
		Winnings:   []WinningTier{{From: 1, To: 1, Price: money("500")}},
	}

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if c.Type != TypeFree {
		t.Fatalf("unexpected type: got=%s want=%s", c.Type, TypeFree)
	}
	if len(c.Winnings) != 2 {
		t.Fatalf("unexpected tier count: got=%d want=2", len(c.Winnings))
	}
	filler := c.Winnings[1]
	if filler.From != 2 || filler.To != 100 || !filler.Price.IsZero() {
		t.Fatalf("unexpected filler tier: %+v", filler)
	}
	if got := c.PrizeForRank(1); !got.Equal(money("500")) {
		t.Fatalf("unexpected prize for rank 1: got=%s want=500", got)
	}
	if got := c.PrizeForRank(57); !got.IsZero() {
		t.Fatalf("prize for an unlisted rank should be zero, got=%s", got)
	}
}

func TestContest_Validate_FreeContestRejectsCommission(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:       1,
		EntryFee:      decimal.Zero,
		CommissionPct: money("5"),
		TotalSpots:    10,
		Winnings:      []WinningTier{{From: 1, To: 1, Price: money("100")}},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected commission rejection for a free contest")
	}
}

func TestContest_Validate_PaidPoolMismatch(t *testing.T) {
	t.Parallel()

	// 10 * 100 * 0.9 = 900 expected while 800 is declared.
	c := Contest{
		MatchID:       1,
		EntryFee:      money("10"),
		PrizePool:     money("800"),
		CommissionPct: money("10"),
		TotalSpots:    100,
		Winnings:      []WinningTier{{From: 1, To: 1, Price: money("400")}},
	}

	err := c.Validate()
	if err == nil {
		t.Fatal("expected prize pool mismatch error")
	}
	if !strings.Contains(err.Error(), "800") || !strings.Contains(err.Error(), "900") {
		t.Fatalf("mismatch error should name both pools, got: %v", err)
	}
}

func TestContest_Validate_PaidPoolWithinTolerance(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:       1,
		EntryFee:      money("10"),
		PrizePool:     money("899"),
		CommissionPct: money("10"),
		TotalSpots:    100,
		Winnings:      []WinningTier{{From: 1, To: 10, Price: money("80")}},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestContest_Validate_OverlappingTiers(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:    1,
		EntryFee:   decimal.Zero,
		PrizePool:  money("150"),
		TotalSpots: 10,
		Winnings: []WinningTier{
			{From: 1, To: 3, Price: money("100")},
			{From: 2, To: 5, Price: money("50")},
		},
	}

	err := c.Validate()
	if err == nil {
		t.Fatal("expected overlap rejection")
	}
	if !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestContest_Validate_WinningsExceedPool(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:       1,
		EntryFee:      money("10"),
		PrizePool:     money("900"),
		CommissionPct: money("10"),
		TotalSpots:    100,
		Winnings:      []WinningTier{{From: 1, To: 10, Price: money("100")}},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected winnings total rejection")
	}
}

func TestContest_Validate_TierOutsideSpots(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:    1,
		PrizePool:  money("100"),
		TotalSpots: 5,
		Winnings:   []WinningTier{{From: 1, To: 8, Price: money("10")}},
	}
	if err := c.Validate(); err == nil {
		t.Fatal("expected out-of-range tier rejection")
	}
}

func TestContest_Validate_GapFillBetweenTiers(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:    1,
		PrizePool:  money("300"),
		TotalSpots: 10,
		Winnings: []WinningTier{
			{From: 5, To: 6, Price: money("50")},
			{From: 1, To: 2, Price: money("100")},
		},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	// Sorted, with zero tiers covering 3-4 and 7-10.
	wantRanges := [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 10}}
	if len(c.Winnings) != len(wantRanges) {
		t.Fatalf("unexpected tier count: got=%d want=%d", len(c.Winnings), len(wantRanges))
	}
	for idx, want := range wantRanges {
		tier := c.Winnings[idx]
		if tier.From != want[0] || tier.To != want[1] {
			t.Fatalf("unexpected tier %d: got=%d-%d want=%d-%d", idx, tier.From, tier.To, want[0], want[1])
		}
	}
	if !c.Winnings[1].Price.IsZero() || !c.Winnings[3].Price.IsZero() {
		t.Fatal("filler tiers should carry zero price")
	}
}

func TestContest_ExpectedPrizePool(t *testing.T) {
	t.Parallel()

	c := Contest{EntryFee: money("10"), TotalSpots: 100, CommissionPct: money("10")}
	if got := c.ExpectedPrizePool(); !got.Equal(money("900")) {
		t.Fatalf("unexpected expected pool: got=%s want=900", got)
	}
}

func TestContest_Validate_DefaultsMaxEntries(t *testing.T) {
	t.Parallel()

	c := Contest{
		MatchID:    1,
		PrizePool:  money("100"),
		TotalSpots: 4,
		Winnings:   []WinningTier{{From: 1, To: 1, Price: money("100")}},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if c.MaxEntriesPerUser != 1 {
		t.Fatalf("unexpected max entries default: got=%d want=1", c.MaxEntriesPerUser)
	}
}

func TestContest_Validate_EntryWindow(t *testing.T) {
	t.Parallel()

	base := Contest{
		MatchID:    1,
		EntryFee:   decimal.Zero,
		TotalSpots: 10,
		Winnings:   []WinningTier{{From: 1, To: 1, Price: money("100")}},
	}
	open := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	c := base
	c.StartsAt = open
	c.EndsAt = open.Add(4 * time.Hour)
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate error for an ordered window: %v", err)
	}

	c = base
	c.StartsAt = open
	c.EndsAt = open
	if err := c.Validate(); err == nil {
		t.Fatal("expected rejection when the window start equals its end")
	}

	c = base
	c.StartsAt = open.Add(time.Hour)
	c.EndsAt = open
	if err := c.Validate(); err == nil {
		t.Fatal("expected rejection when the window start is after its end")
	}

	c = base
	c.EndsAt = open
	if err := c.Validate(); err == nil {
		t.Fatal("expected rejection when only one side of the window is set")
	}
}
