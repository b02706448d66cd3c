package cricketdata

// Wire types for the cricket data vendor's v2 JSON API. Field sets follow the
// vendor payloads; unused fields are kept where they document the shape.

type tournamentsEnvelope struct {
	Data []tournamentItem `json:"data"`
}

type tournamentItem struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Season string         `json:"season"`
	Status string         `json:"status"`
	Extra  map[string]any `json:"extra"`
}

type teamsEnvelope struct {
	Data []teamItem `json:"data"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	ImagePath string `json:"image_path"`
	Country   string `json:"country"`
}

type squadEnvelope struct {
	Data []squadPlayerItem `json:"data"`
}

type squadPlayerItem struct {
	ID           int64          `json:"id"`
	TeamID       int64          `json:"team_id"`
	Name         string         `json:"name"`
	Role         string         `json:"playing_role"`
	BattingStyle string         `json:"batting_style"`
	BowlingStyle string         `json:"bowling_style"`
	Nationality  string         `json:"nationality"`
	DateOfBirth  string         `json:"date_of_birth"`
	ImagePath    string         `json:"image_path"`
	Extra        map[string]any `json:"extra"`
}

type fixturesEnvelope struct {
	Data []fixtureItem `json:"data"`
}

type fixtureItem struct {
	ID           int64          `json:"id"`
	TournamentID int64          `json:"tournament_id"`
	HomeTeamID   int64          `json:"home_team_id"`
	AwayTeamID   int64          `json:"away_team_id"`
	Title        string         `json:"title"`
	Format       string         `json:"format"`
	Venue        string         `json:"venue"`
	Status       string         `json:"status"`
	StartingAt   string         `json:"starting_at"`
	Extra        map[string]any `json:"extra"`
}

type scoreboardEnvelope struct {
	Data scoreboardItem `json:"data"`
}

type scoreboardItem struct {
	FixtureID  int64              `json:"fixture_id"`
	Status     string             `json:"status"`
	TossWonBy  int64              `json:"toss_won_by"`
	Elected    string             `json:"elected"`
	WinnerID   int64              `json:"winner_id"`
	Note       string             `json:"note"`
	DLSApplied bool               `json:"dls_applied"`
	Innings    []inningsItem      `json:"innings"`
	Batting    []battingLineItem  `json:"batting"`
	Bowling    []bowlingLineItem  `json:"bowling"`
	Fielding   []fieldingLineItem `json:"fielding"`
	Lineups    []lineupItem       `json:"lineups"`
}

type inningsItem struct {
	TeamID  int64  `json:"team_id"`
	Number  int    `json:"number"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Overs   string `json:"overs"`
	Byes    int    `json:"byes"`
	LegByes int    `json:"leg_byes"`
	Wides   int    `json:"wides"`
	NoBalls int    `json:"no_balls"`
	Penalty int    `json:"penalty"`
}

type battingLineItem struct {
	PlayerID   int64  `json:"player_id"`
	TeamID     int64  `json:"team_id"`
	Runs       int    `json:"runs"`
	BallsFaced int    `json:"balls_faced"`
	Fours      int    `json:"fours"`
	Sixes      int    `json:"sixes"`
	Dismissal  string `json:"dismissal"`
	NotOut     bool   `json:"not_out"`
}

type bowlingLineItem struct {
	PlayerID     int64  `json:"player_id"`
	TeamID       int64  `json:"team_id"`
	Overs        string `json:"overs"`
	Maidens      int    `json:"maidens"`
	RunsConceded int    `json:"runs_conceded"`
	Wickets      int    `json:"wickets"`
	Wides        int    `json:"wides"`
	NoBalls      int    `json:"no_balls"`
}

type fieldingLineItem struct {
	PlayerID      int64 `json:"player_id"`
	TeamID        int64 `json:"team_id"`
	Catches       int   `json:"catches"`
	RunOuts       int   `json:"run_outs"`
	DirectRunOuts int   `json:"direct_run_outs"`
	Stumpings     int   `json:"stumpings"`
}

type lineupItem struct {
	PlayerID  int64  `json:"player_id"`
	TeamID    int64  `json:"team_id"`
	Status    string `json:"status"`
	IsCaptain bool   `json:"is_captain"`
	IsKeeper  bool   `json:"is_keeper"`
}

type careersEnvelope struct {
	Data []careerItem `json:"data"`
}

type careerItem struct {
	PlayerID     int64  `json:"player_id"`
	Season       string `json:"season"`
	Format       string `json:"format"`
	Matches      int    `json:"matches"`
	Runs         int    `json:"runs"`
	BallsFaced   int    `json:"balls_faced"`
	HighScore    int    `json:"high_score"`
	Hundreds     int    `json:"hundreds"`
	Fifties      int    `json:"fifties"`
	Wickets      int    `json:"wickets"`
	Overs        string `json:"overs"`
	RunsConceded int    `json:"runs_conceded"`
}

type deliveriesEnvelope struct {
	Data []deliveryItem `json:"data"`
}

type deliveryItem struct {
	BowlerID int64 `json:"bowler_id"`
	BatterID int64 `json:"batter_id"`
	Innings  int   `json:"innings"`
	Over     int   `json:"over"`
	Ball     int   `json:"ball"`
	Runs     int   `json:"runs"`
	Byes     int   `json:"byes"`
	LegByes  int   `json:"leg_byes"`
	IsWide   bool  `json:"is_wide"`
	IsNoBall bool  `json:"is_no_ball"`
	IsWicket bool  `json:"is_wicket"`
}
