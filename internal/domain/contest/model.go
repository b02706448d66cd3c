package contest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoSpots is returned by repositories when an entry cannot claim a spot
// because the contest is already full.
var ErrNoSpots = errors.New("contest has no open spots")

const (
	TypeFree = "free"
	TypePaid = "paid"

	StatusOpen      = "open"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// prizePoolTolerance is how far the declared pool may drift from the
// fee-derived pool to absorb rounding.
var prizePoolTolerance = decimal.NewFromInt(1)

// WinningTier pays one prize to every rank in [From, To].
type WinningTier struct {
	From  int             `json:"from"`
	To    int             `json:"to"`
	Price decimal.Decimal `json:"price"`
}

func (t WinningTier) Size() int {
	return t.To - t.From + 1
}

// Contest is a prize competition attached to a match.
type Contest struct {
	ID               int64
	MatchID          int64
	Name             string
	Type             string
	EntryFee         decimal.Decimal
	PrizePool        decimal.Decimal
	CommissionPct    decimal.Decimal
	TotalSpots       int
	FilledSpots      int
	MaxEntriesPerUser int
	Winnings         []WinningTier
	Status           string
	StartsAt         time.Time
	EndsAt           time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Entry is one fantasy team joined into a contest.
type Entry struct {
	ID            int64
	ContestID     int64
	UserID        int64
	FantasyTeamID int64
	Points        decimal.Decimal
	Rank          int
	CreatedAt     time.Time
}

func (c Contest) IsFree() bool {
	return c.EntryFee.IsZero()
}

// ExpectedPrizePool derives the pool from entry economics, rounded to the
// nearest whole unit.
func (c Contest) ExpectedPrizePool() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	keep := hundred.Sub(c.CommissionPct).Div(hundred)
	return c.EntryFee.Mul(decimal.NewFromInt(int64(c.TotalSpots))).Mul(keep).Round(0)
}

// Validate checks the contest economics and normalizes the winnings table to
// full [1, TotalSpots] coverage. It must be called before the contest is
// stored; the normalized table replaces c.Winnings.
func (c *Contest) Validate() error {
	if c.MatchID <= 0 {
		return fmt.Errorf("contest match id is required")
	}
	if c.TotalSpots <= 0 {
		return fmt.Errorf("contest total spots must be greater than zero")
	}
	if c.MaxEntriesPerUser <= 0 {
		c.MaxEntriesPerUser = 1
	}
	if !c.StartsAt.IsZero() || !c.EndsAt.IsZero() {
		if c.StartsAt.IsZero() || c.EndsAt.IsZero() {
			return fmt.Errorf("contest entry window needs both start and end")
		}
		if !c.StartsAt.Before(c.EndsAt) {
			return fmt.Errorf("contest entry window start %s must be before end %s", c.StartsAt.Format(time.RFC3339), c.EndsAt.Format(time.RFC3339))
		}
	}
	if c.EntryFee.IsNegative() {
		return fmt.Errorf("contest entry fee cannot be negative")
	}
	if c.PrizePool.IsNegative() {
		return fmt.Errorf("contest prize pool cannot be negative")
	}
	if c.EntryFee.IsZero() {
		c.Type = TypeFree
		if !c.CommissionPct.IsZero() {
			return fmt.Errorf("free contest commission must be zero, got %s", c.CommissionPct)
		}
	} else {
		c.Type = TypePaid
		hundred := decimal.NewFromInt(100)
		if c.CommissionPct.IsNegative() || c.CommissionPct.GreaterThan(hundred) {
			return fmt.Errorf("contest commission must be between 0 and 100, got %s", c.CommissionPct)
		}
		expected := c.ExpectedPrizePool()
		if expected.Sub(c.PrizePool).Abs().GreaterThan(prizePoolTolerance) {
			return fmt.Errorf("declared prize pool %s does not match expected prize pool %s", c.PrizePool, expected)
		}
	}

	normalized, err := normalizeWinnings(c.Winnings, c.TotalSpots)
	if err != nil {
		return err
	}
	if c.Type == TypePaid {
		total := decimal.Zero
		for _, tier := range normalized {
			total = total.Add(tier.Price.Mul(decimal.NewFromInt(int64(tier.Size()))))
		}
		if total.GreaterThan(c.PrizePool) {
			return fmt.Errorf("winnings total %s exceeds declared prize pool %s", total, c.PrizePool)
		}
	}
	c.Winnings = normalized
	return nil
}

// normalizeWinnings sorts the declared tiers, rejects out-of-range or
// overlapping ranges, and fills uncovered ranks with zero-price tiers so the
// stored table always covers [1, totalSpots] with no gaps.
func normalizeWinnings(tiers []WinningTier, totalSpots int) ([]WinningTier, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("contest winnings table cannot be empty")
	}
	sorted := make([]WinningTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	out := make([]WinningTier, 0, len(sorted)+2)
	next := 1
	for _, tier := range sorted {
		if tier.Price.IsNegative() {
			return nil, fmt.Errorf("winnings tier %d-%d has negative price %s", tier.From, tier.To, tier.Price)
		}
		if tier.From < 1 || tier.To > totalSpots {
			return nil, fmt.Errorf("winnings tier %d-%d falls outside ranks 1-%d", tier.From, tier.To, totalSpots)
		}
		if tier.To < tier.From {
			return nil, fmt.Errorf("winnings tier %d-%d ends before it starts", tier.From, tier.To)
		}
		if tier.From < next {
			return nil, fmt.Errorf("winnings tier %d-%d overlaps a previous tier", tier.From, tier.To)
		}
		if tier.From > next {
			out = append(out, WinningTier{From: next, To: tier.From - 1, Price: decimal.Zero})
		}
		out = append(out, tier)
		next = tier.To + 1
	}
	if next <= totalSpots {
		out = append(out, WinningTier{From: next, To: totalSpots, Price: decimal.Zero})
	}
	return out, nil
}

// PrizeForRank returns the payout the winnings table assigns a rank.
func (c Contest) PrizeForRank(rank int) decimal.Decimal {
	for _, tier := range c.Winnings {
		if rank >= tier.From && rank <= tier.To {
			return tier.Price
		}
	}
	return decimal.Zero
}
