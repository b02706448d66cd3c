package match

import (
	"fmt"
	"strings"
	"time"
)

// Status walks forward through the innings of a fixture. Terminal statuses
// never change again once recorded.
type Status string

const (
	StatusNotStarted    Status = "not_started"
	StatusToss          Status = "toss"
	StatusFirstInnings  Status = "first_innings"
	StatusInningsBreak  Status = "innings_break"
	StatusSecondInnings Status = "second_innings"
	StatusThirdInnings  Status = "third_innings"
	StatusFourthInnings Status = "fourth_innings"
	StatusStumps        Status = "stumps"
	StatusFinished      Status = "finished"
	StatusCancelled     Status = "cancelled"
	StatusAbandoned     Status = "abandoned"
)

const (
	FormatT20  = "t20"
	FormatODI  = "odi"
	FormatTest = "test"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusFinished, StatusCancelled, StatusAbandoned:
		return true
	}
	return false
}

func (s Status) IsLive() bool {
	switch s {
	case StatusFirstInnings, StatusInningsBreak, StatusSecondInnings,
		StatusThirdInnings, StatusFourthInnings, StatusStumps:
		return true
	}
	return false
}

// order positions each non-terminal status on the forward axis of a fixture.
// Stumps sits alongside innings break as a pause state.
var order = map[Status]int{
	StatusNotStarted:    0,
	StatusToss:          1,
	StatusFirstInnings:  2,
	StatusInningsBreak:  3,
	StatusStumps:        3,
	StatusSecondInnings: 4,
	StatusThirdInnings:  5,
	StatusFourthInnings: 6,
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Terminal states are absorbing, any live or pending state may jump to
// a terminal one, and play never moves backwards.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next.IsTerminal() {
		return true
	}
	from, okFrom := order[s]
	to, okTo := order[next]
	if !okFrom || !okTo {
		return false
	}
	return to >= from
}

// NormalizeStatus maps provider status strings onto the platform lifecycle.
func NormalizeStatus(raw string) Status {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	cleaned = strings.ReplaceAll(cleaned, "-", "_")
	switch cleaned {
	case "ns", "fixture", "scheduled", "upcoming", "":
		return StatusNotStarted
	case "toss", "delayed":
		return StatusToss
	case "1st_innings", "first_innings", "live", "in_progress":
		return StatusFirstInnings
	case "innings_break", "int", "break", "lunch", "tea", "dinner", "rain_delay":
		return StatusInningsBreak
	case "2nd_innings", "second_innings":
		return StatusSecondInnings
	case "3rd_innings", "third_innings":
		return StatusThirdInnings
	case "4th_innings", "fourth_innings":
		return StatusFourthInnings
	case "stumps":
		return StatusStumps
	case "finished", "completed", "aet", "result":
		return StatusFinished
	case "cancelled", "canceled", "postponed":
		return StatusCancelled
	case "abandoned", "no_result", "aban.":
		return StatusAbandoned
	}
	return Status(cleaned)
}

// TeamScore is one innings line on the scoreboard.
type TeamScore struct {
	TeamID  int64
	Innings int
	Runs    int
	Wickets int
	Overs   string
	Byes    int
	LegByes int
	Wides   int
	NoBalls int
	Penalty int
}

// Scorecard is the match-level summary refreshed on every live sync pass.
type Scorecard struct {
	Scores      []TeamScore
	TossWonBy   int64
	Elected     string
	WinnerID    int64
	Note        string
	DLSApplied  bool
	LastUpdated time.Time
}

type Match struct {
	ID           int64
	ExternalID   int64
	TournamentID int64
	HomeTeamID   int64
	AwayTeamID   int64
	Title        string
	Format       string
	Venue        string
	Status       Status
	StartsAt     time.Time
	// EndsAt is stamped exactly once, on the transition into a terminal
	// status, and never overwritten afterwards.
	EndsAt    *time.Time
	Scorecard *Scorecard
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Match) ValidateBasic() error {
	if m.ExternalID <= 0 {
		return fmt.Errorf("match external id must be greater than zero")
	}
	if m.TournamentID <= 0 {
		return fmt.Errorf("match tournament id is required")
	}
	if m.StartsAt.IsZero() {
		return fmt.Errorf("match start time is required")
	}
	return nil
}
