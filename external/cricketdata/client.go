package cricketdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
	"github.com/ovrplay/fantasy-cricket/internal/platform/resilience"
	"github.com/ovrplay/fantasy-cricket/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.cricketdata.io/v2"
	maxResponseSize = 6 << 20
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errCricketDataTransient = crerr.New("cricketdata transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchTournaments(ctx context.Context) ([]usecase.ExternalTournament, error) {
	var envelope tournamentsEnvelope
	if err := c.doJSON(ctx, "/tournaments", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch tournaments: %w", err)
	}

	out := make([]usecase.ExternalTournament, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTournament{
			ExternalID: item.ID,
			Name:       strings.TrimSpace(item.Name),
			Season:     strings.TrimSpace(item.Season),
			Status:     strings.TrimSpace(item.Status),
			Raw:        item.Extra,
		})
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, tournamentExternalID int64) ([]usecase.ExternalTeam, error) {
	if tournamentExternalID <= 0 {
		return nil, fmt.Errorf("tournament id must be greater than zero")
	}

	var envelope teamsEnvelope
	path := fmt.Sprintf("/tournaments/%d/teams", tournamentExternalID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams tournament_id=%d: %w", tournamentExternalID, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ExternalID: item.ID,
			Name:       strings.TrimSpace(item.Name),
			ShortName:  strings.TrimSpace(item.ShortName),
			LogoURL:    strings.TrimSpace(item.ImagePath),
			Country:    strings.TrimSpace(item.Country),
		})
	}
	return out, nil
}

func (c *Client) FetchSquad(ctx context.Context, tournamentExternalID, teamExternalID int64) ([]usecase.ExternalPlayer, error) {
	if tournamentExternalID <= 0 || teamExternalID <= 0 {
		return nil, fmt.Errorf("tournament and team ids must be greater than zero")
	}

	var envelope squadEnvelope
	path := fmt.Sprintf("/tournaments/%d/teams/%d/squad", tournamentExternalID, teamExternalID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch squad tournament_id=%d team_id=%d: %w", tournamentExternalID, teamExternalID, err)
	}

	out := make([]usecase.ExternalPlayer, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		teamID := item.TeamID
		if teamID <= 0 {
			teamID = teamExternalID
		}
		out = append(out, usecase.ExternalPlayer{
			ExternalID:     item.ID,
			TeamExternalID: teamID,
			Name:           strings.TrimSpace(item.Name),
			Role:           strings.TrimSpace(item.Role),
			BattingStyle:   strings.TrimSpace(item.BattingStyle),
			BowlingStyle:   strings.TrimSpace(item.BowlingStyle),
			Nationality:    strings.TrimSpace(item.Nationality),
			BornOn:         parseProviderDate(item.DateOfBirth),
			ImageURL:       strings.TrimSpace(item.ImagePath),
			Raw:            item.Extra,
		})
	}
	return out, nil
}

func (c *Client) FetchFixtures(ctx context.Context, tournamentExternalID int64) ([]usecase.ExternalFixture, error) {
	if tournamentExternalID <= 0 {
		return nil, fmt.Errorf("tournament id must be greater than zero")
	}

	var envelope fixturesEnvelope
	path := fmt.Sprintf("/tournaments/%d/fixtures", tournamentExternalID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures tournament_id=%d: %w", tournamentExternalID, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		row := usecase.ExternalFixture{
			ExternalID:           item.ID,
			TournamentExternalID: item.TournamentID,
			HomeTeamExternalID:   item.HomeTeamID,
			AwayTeamExternalID:   item.AwayTeamID,
			Title:                strings.TrimSpace(item.Title),
			Format:               strings.ToLower(strings.TrimSpace(item.Format)),
			Venue:                strings.TrimSpace(item.Venue),
			Status:               strings.TrimSpace(item.Status),
			Raw:                  item.Extra,
		}
		if row.TournamentExternalID <= 0 {
			row.TournamentExternalID = tournamentExternalID
		}
		if parsed := parseProviderDateTime(item.StartingAt); parsed != nil {
			row.StartsAt = *parsed
		}
		out = append(out, row)
	}
	return out, nil
}

func (c *Client) FetchScoreboard(ctx context.Context, fixtureExternalID int64) (usecase.ExternalScoreboard, error) {
	if fixtureExternalID <= 0 {
		return usecase.ExternalScoreboard{}, fmt.Errorf("fixture id must be greater than zero")
	}

	var envelope scoreboardEnvelope
	path := fmt.Sprintf("/fixtures/%d/scoreboard", fixtureExternalID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return usecase.ExternalScoreboard{}, fmt.Errorf("fetch scoreboard fixture_id=%d: %w", fixtureExternalID, err)
	}

	item := envelope.Data
	board := usecase.ExternalScoreboard{
		FixtureExternalID:   fixtureExternalID,
		Status:              strings.TrimSpace(item.Status),
		TossWonByExternalID: item.TossWonBy,
		Elected:             strings.TrimSpace(item.Elected),
		WinnerExternalID:    item.WinnerID,
		Note:                strings.TrimSpace(item.Note),
		DLSApplied:          item.DLSApplied,
	}
	for _, innings := range item.Innings {
		board.Innings = append(board.Innings, usecase.ExternalInningsScore{
			TeamExternalID: innings.TeamID,
			Innings:        innings.Number,
			Runs:           innings.Runs,
			Wickets:        innings.Wickets,
			Overs:          strings.TrimSpace(innings.Overs),
			Byes:           innings.Byes,
			LegByes:        innings.LegByes,
			Wides:          innings.Wides,
			NoBalls:        innings.NoBalls,
			Penalty:        innings.Penalty,
		})
	}
	for _, line := range item.Batting {
		if line.PlayerID <= 0 {
			continue
		}
		board.Batting = append(board.Batting, usecase.ExternalBattingLine{
			PlayerExternalID: line.PlayerID,
			TeamExternalID:   line.TeamID,
			Runs:             line.Runs,
			BallsFaced:       line.BallsFaced,
			Fours:            line.Fours,
			Sixes:            line.Sixes,
			Dismissal:        strings.TrimSpace(line.Dismissal),
			NotOut:           line.NotOut,
		})
	}
	for _, line := range item.Bowling {
		if line.PlayerID <= 0 {
			continue
		}
		board.Bowling = append(board.Bowling, usecase.ExternalBowlingLine{
			PlayerExternalID: line.PlayerID,
			TeamExternalID:   line.TeamID,
			BallsBowled:      oversNotationToBalls(line.Overs),
			Maidens:          line.Maidens,
			RunsConceded:     line.RunsConceded,
			Wickets:          line.Wickets,
			Wides:            line.Wides,
			NoBalls:          line.NoBalls,
		})
	}
	for _, line := range item.Fielding {
		if line.PlayerID <= 0 {
			continue
		}
		board.Fielding = append(board.Fielding, usecase.ExternalFieldingLine{
			PlayerExternalID: line.PlayerID,
			TeamExternalID:   line.TeamID,
			Catches:          line.Catches,
			RunOuts:          line.RunOuts,
			DirectRunOuts:    line.DirectRunOuts,
			Stumpings:        line.Stumpings,
		})
	}
	for _, entry := range item.Lineups {
		if entry.PlayerID <= 0 {
			continue
		}
		board.Lineups = append(board.Lineups, usecase.ExternalLineupEntry{
			PlayerExternalID: entry.PlayerID,
			TeamExternalID:   entry.TeamID,
			Status:           strings.TrimSpace(entry.Status),
			IsCaptain:        entry.IsCaptain,
			IsKeeper:         entry.IsKeeper,
		})
	}
	return board, nil
}

func (c *Client) FetchDeliveries(ctx context.Context, fixtureExternalID int64) ([]usecase.ExternalDelivery, error) {
	if fixtureExternalID <= 0 {
		return nil, fmt.Errorf("fixture id must be greater than zero")
	}

	var envelope deliveriesEnvelope
	path := fmt.Sprintf("/fixtures/%d/balls", fixtureExternalID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch deliveries fixture_id=%d: %w", fixtureExternalID, err)
	}

	out := make([]usecase.ExternalDelivery, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.BowlerID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalDelivery{
			BowlerExternalID: item.BowlerID,
			BatterExternalID: item.BatterID,
			Innings:          item.Innings,
			Over:             item.Over,
			BallInOver:       item.Ball,
			Runs:             item.Runs,
			Byes:             item.Byes,
			LegByes:          item.LegByes,
			IsWide:           item.IsWide,
			IsNoBall:         item.IsNoBall,
			IsWicket:         item.IsWicket,
		})
	}
	return out, nil
}

func (c *Client) FetchPlayerCareer(ctx context.Context, playerExternalID int64) ([]usecase.ExternalCareerStat, error) {
	if playerExternalID <= 0 {
		return nil, fmt.Errorf("player id must be greater than zero")
	}

	var envelope careersEnvelope
	path := fmt.Sprintf("/players/%d/career", playerExternalID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player career player_id=%d: %w", playerExternalID, err)
	}

	out := make([]usecase.ExternalCareerStat, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		playerID := item.PlayerID
		if playerID <= 0 {
			playerID = playerExternalID
		}
		out = append(out, usecase.ExternalCareerStat{
			PlayerExternalID: playerID,
			Season:           strings.TrimSpace(item.Season),
			Format:           strings.ToLower(strings.TrimSpace(item.Format)),
			Matches:          item.Matches,
			Runs:             item.Runs,
			BallsFaced:       item.BallsFaced,
			HighScore:        item.HighScore,
			Hundreds:         item.Hundreds,
			Fifties:          item.Fifties,
			Wickets:          item.Wickets,
			BallsBowled:      oversNotationToBalls(item.Overs),
			RunsConceded:     item.RunsConceded,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricketdata circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: cricket data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCricketDataCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errCricketDataTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errCricketDataTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errCricketDataTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "cricketdata request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// readBody drains the response through a pooled buffer before copying out the
// bytes that outlive the pool slot.
func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(body, maxResponseSize)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

// oversNotationToBalls converts cricket overs notation to a ball count, so
// "4.3" becomes 27 balls.
func oversNotationToBalls(overs string) int {
	value := strings.TrimSpace(overs)
	if value == "" {
		return 0
	}

	whole := value
	rem := 0
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		whole = value[:idx]
		parsed, err := strconv.Atoi(value[idx+1:])
		if err != nil || parsed < 0 || parsed > 5 {
			return 0
		}
		rem = parsed
	}

	parsed, err := strconv.Atoi(whole)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed*6 + rem
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}

func parseProviderDate(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return parseProviderDateTime(raw)
	}
	v := parsed.UTC()
	return &v
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func isCricketDataCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errCricketDataTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
