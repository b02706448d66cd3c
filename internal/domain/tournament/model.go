package tournament

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Tournament is a provider league+season context. Rows are created by entity
// sync and never hard-deleted.
type Tournament struct {
	ID         int64
	ExternalID int64
	Name       string
	Season     string
	Status     string
	Metadata   map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t Tournament) ValidateBasic() error {
	if t.ExternalID <= 0 {
		return fmt.Errorf("tournament external id must be greater than zero")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tournament name is required")
	}
	return nil
}

func NormalizeStatus(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), StatusInactive) {
		return StatusInactive
	}
	return StatusActive
}
