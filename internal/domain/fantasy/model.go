package fantasy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TeamSize       = 11
	MaxSubstitutes = 4
)

// Pick is one player slot on a fantasy team. Substitutes sit on the bench:
// they hold a slot but never score.
type Pick struct {
	PlayerID      int64
	IsCaptain     bool
	IsViceCaptain bool
	IsSubstitute  bool
	Points        decimal.Decimal
}

// Team is a user's lineup for one match. A user keeps at most one team per
// match and edits it until the match starts.
type Team struct {
	ID        int64
	UserID    int64
	MatchID   int64
	Name      string
	Picks     []Pick
	Points    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the lineup shape: a full starting side plus an optional
// bench, no duplicate players, and exactly one captain and one vice captain
// held by different starters.
func (t Team) Validate() error {
	if t.UserID <= 0 {
		return fmt.Errorf("fantasy team user id is required")
	}
	if t.MatchID <= 0 {
		return fmt.Errorf("fantasy team match id is required")
	}
	seen := make(map[int64]struct{}, len(t.Picks))
	var starters, substitutes, captains, viceCaptains int
	for _, pick := range t.Picks {
		if pick.PlayerID <= 0 {
			return fmt.Errorf("fantasy team pick has no player id")
		}
		if _, dup := seen[pick.PlayerID]; dup {
			return fmt.Errorf("fantasy team picks player %d more than once", pick.PlayerID)
		}
		seen[pick.PlayerID] = struct{}{}
		if pick.IsSubstitute {
			substitutes++
			if pick.IsCaptain || pick.IsViceCaptain {
				return fmt.Errorf("substitute %d cannot hold the captaincy", pick.PlayerID)
			}
			continue
		}
		starters++
		if pick.IsCaptain && pick.IsViceCaptain {
			return fmt.Errorf("player %d cannot be both captain and vice captain", pick.PlayerID)
		}
		if pick.IsCaptain {
			captains++
		}
		if pick.IsViceCaptain {
			viceCaptains++
		}
	}
	if starters != TeamSize {
		return fmt.Errorf("fantasy team must field exactly %d starters, got %d", TeamSize, starters)
	}
	if substitutes > MaxSubstitutes {
		return fmt.Errorf("fantasy team bench holds at most %d substitutes, got %d", MaxSubstitutes, substitutes)
	}
	if captains != 1 {
		return fmt.Errorf("fantasy team must name exactly one captain, got %d", captains)
	}
	if viceCaptains != 1 {
		return fmt.Errorf("fantasy team must name exactly one vice captain, got %d", viceCaptains)
	}
	return nil
}
