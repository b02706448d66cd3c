package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discipline scopes a statistics write to one section of the scorecard so
// that updating a player's bowling line never disturbs their batting line.
type Discipline string

const (
	DisciplineBatting  Discipline = "batting"
	DisciplineBowling  Discipline = "bowling"
	DisciplineFielding Discipline = "fielding"
)

const (
	LineupProbable   = "probable"
	LineupStarting   = "starting"
	LineupSubstitute = "substitute"
)

// Batting is one player's batting line in a match.
type Batting struct {
	Runs       int
	BallsFaced int
	Fours      int
	Sixes      int
	Dismissal  string
	NotOut     bool
}

func (b Batting) StrikeRate() decimal.Decimal {
	if b.BallsFaced == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(b.Runs) * 100).
		DivRound(decimal.NewFromInt(int64(b.BallsFaced)), 2)
}

// Bowling tracks balls as a raw count; Overs renders it in cricket notation
// where 27 balls is 4.3 overs. DotBallPairs is computed from the delivery
// sequence at ingestion time and stored, since pairing depends on ball order.
type Bowling struct {
	BallsBowled  int
	Maidens      int
	RunsConceded int
	Wickets      int
	Wides        int
	NoBalls      int
	DotBalls     int
	DotBallPairs int
}

// Overs returns completed overs plus remainder balls as overs.balls.
func (b Bowling) Overs() decimal.Decimal {
	whole := decimal.NewFromInt(int64(b.BallsBowled / 6))
	rem := decimal.New(int64(b.BallsBowled%6), -1)
	return whole.Add(rem)
}

// EconomyRate is runs conceded per full over, rounded to two places.
func (b Bowling) EconomyRate() decimal.Decimal {
	if b.BallsBowled == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(b.RunsConceded) * 6).
		DivRound(decimal.NewFromInt(int64(b.BallsBowled)), 2)
}

// Delivery is one ball from the provider's ball-by-ball feed, reduced to the
// fields dot-ball accounting needs.
type Delivery struct {
	BowlerID int64
	Runs     int
	Byes     int
	LegByes  int
	IsWide   bool
	IsNoBall bool
}

// IsDot reports whether the delivery is a legal ball conceding nothing.
func (d Delivery) IsDot() bool {
	return !d.IsWide && !d.IsNoBall && d.Runs == 0 && d.Byes == 0 && d.LegByes == 0
}

// CountDotBalls walks one bowler's deliveries in order and returns the raw
// dot count plus the number of non-overlapping consecutive dot pairs: two
// dots in a row consume each other, so a run of three dots yields one pair.
func CountDotBalls(deliveries []Delivery) (dots, pairs int) {
	streak := 0
	for _, d := range deliveries {
		if !d.IsDot() {
			streak = 0
			continue
		}
		dots++
		streak++
		if streak == 2 {
			pairs++
			streak = 0
		}
	}
	return dots, pairs
}

// Fielding is one player's fielding line in a match.
type Fielding struct {
	Catches       int
	RunOuts       int
	DirectRunOuts int
	Stumpings     int
}

// PlayerMatchStat is the single aggregate row per (match, player). All three
// disciplines live on one row and are written independently.
type PlayerMatchStat struct {
	ID        int64
	MatchID   int64
	PlayerID  int64
	TeamID    int64
	Batting   Batting
	Bowling   Bowling
	Fielding  Fielding
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineupEntry records a player's announced participation in a match.
type LineupEntry struct {
	MatchID   int64
	PlayerID  int64
	TeamID    int64
	Status    string
	IsCaptain bool
	IsKeeper  bool
}
