package usecase

import (
	"context"
	"time"
)

// CricketDataProvider is the outbound port to the cricket data vendor. Every
// call maps one vendor endpoint; callers own pacing between calls.
type CricketDataProvider interface {
	FetchTournaments(ctx context.Context) ([]ExternalTournament, error)
	FetchTeams(ctx context.Context, tournamentExternalID int64) ([]ExternalTeam, error)
	FetchSquad(ctx context.Context, tournamentExternalID, teamExternalID int64) ([]ExternalPlayer, error)
	FetchFixtures(ctx context.Context, tournamentExternalID int64) ([]ExternalFixture, error)
	FetchScoreboard(ctx context.Context, fixtureExternalID int64) (ExternalScoreboard, error)
	FetchDeliveries(ctx context.Context, fixtureExternalID int64) ([]ExternalDelivery, error)
	FetchPlayerCareer(ctx context.Context, playerExternalID int64) ([]ExternalCareerStat, error)
}

type ExternalTournament struct {
	ExternalID int64
	Name       string
	Season     string
	Status     string
	Raw        map[string]any
}

type ExternalTeam struct {
	ExternalID int64
	Name       string
	ShortName  string
	LogoURL    string
	Country    string
}

type ExternalPlayer struct {
	ExternalID     int64
	TeamExternalID int64
	Name           string
	Role           string
	BattingStyle   string
	BowlingStyle   string
	Nationality    string
	BornOn         *time.Time
	ImageURL       string
	Raw            map[string]any
}

type ExternalFixture struct {
	ExternalID           int64
	TournamentExternalID int64
	HomeTeamExternalID   int64
	AwayTeamExternalID   int64
	Title                string
	Format               string
	Venue                string
	Status               string
	StartsAt             time.Time
	Raw                  map[string]any
}

type ExternalInningsScore struct {
	TeamExternalID int64
	Innings        int
	Runs           int
	Wickets        int
	Overs          string
	Byes           int
	LegByes        int
	Wides          int
	NoBalls        int
	Penalty        int
}

type ExternalBattingLine struct {
	PlayerExternalID int64
	TeamExternalID   int64
	Runs             int
	BallsFaced       int
	Fours            int
	Sixes            int
	Dismissal        string
	NotOut           bool
}

type ExternalBowlingLine struct {
	PlayerExternalID int64
	TeamExternalID   int64
	BallsBowled      int
	Maidens          int
	RunsConceded     int
	Wickets          int
	Wides            int
	NoBalls          int
}

type ExternalFieldingLine struct {
	PlayerExternalID int64
	TeamExternalID   int64
	Catches          int
	RunOuts          int
	DirectRunOuts    int
	Stumpings        int
}

type ExternalLineupEntry struct {
	PlayerExternalID int64
	TeamExternalID   int64
	Status           string
	IsCaptain        bool
	IsKeeper         bool
}

// ExternalScoreboard is the full fixture scoreboard: innings totals plus the
// per-player lines the statistics engine ingests.
type ExternalScoreboard struct {
	FixtureExternalID    int64
	Status               string
	Innings              []ExternalInningsScore
	Batting              []ExternalBattingLine
	Bowling              []ExternalBowlingLine
	Fielding             []ExternalFieldingLine
	Lineups              []ExternalLineupEntry
	TossWonByExternalID  int64
	Elected              string
	WinnerExternalID     int64
	Note                 string
	DLSApplied           bool
}

// ExternalCareerStat aggregates one season and format of a player's career.
type ExternalCareerStat struct {
	PlayerExternalID int64
	Season           string
	Format           string
	Matches          int
	Runs             int
	BallsFaced       int
	HighScore        int
	Hundreds         int
	Fifties          int
	Wickets          int
	BallsBowled      int
	RunsConceded     int
}

// ExternalDelivery is one ball from the vendor's ball-by-ball feed, in
// delivery order.
type ExternalDelivery struct {
	BowlerExternalID  int64
	BatterExternalID  int64
	Innings           int
	Over              int
	BallInOver        int
	Runs              int
	Byes              int
	LegByes           int
	IsWide            bool
	IsNoBall          bool
	IsWicket          bool
}
