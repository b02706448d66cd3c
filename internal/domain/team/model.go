package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a squad playing under a tournament. ShortName is the three or four
// letter code shown on scoreboards.
type Team struct {
	ID           int64
	ExternalID   int64
	TournamentID int64
	Name         string
	ShortName    string
	LogoURL      string
	Country      string
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Team) ValidateBasic() error {
	if t.ExternalID <= 0 {
		return fmt.Errorf("team external id must be greater than zero")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
