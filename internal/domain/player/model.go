package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleBatsman      = "batsman"
	RoleBowler       = "bowler"
	RoleAllRounder   = "all_rounder"
	RoleWicketKeeper = "wicket_keeper"
)

// Player is a cricketer known to the platform. Credits and Points are the
// fantasy selection price and the rolling rating recomputed after matches.
type Player struct {
	ID              int64
	ExternalID      int64
	Name            string
	Role            string
	BattingStyle    string
	BowlingStyle    string
	Nationality     string
	BornOn          *time.Time
	ImageURL        string
	Credits         decimal.Decimal
	Points          decimal.Decimal
	SelectedByPct   decimal.Decimal
	PlayedLastMatch bool
	Metadata        map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Membership ties a player to a team for one season. A player can hold
// memberships in different teams across seasons.
type Membership struct {
	PlayerID int64
	TeamID   int64
	Season   string
}

func (p Player) ValidateBasic() error {
	if p.ExternalID <= 0 {
		return fmt.Errorf("player external id must be greater than zero")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// NormalizeRole maps free-form provider role strings onto the four platform
// roles. Unrecognized input defaults to batsman.
func NormalizeRole(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(cleaned, "wicket") || strings.Contains(cleaned, "keeper"):
		return RoleWicketKeeper
	case strings.Contains(cleaned, "allrounder") || strings.Contains(cleaned, "all-rounder") || strings.Contains(cleaned, "all rounder"):
		return RoleAllRounder
	case strings.Contains(cleaned, "bowl"):
		return RoleBowler
	default:
		return RoleBatsman
	}
}
