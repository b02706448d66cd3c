package httpapi

import (
	"net/http"
	"strings"

	"github.com/ovrplay/fantasy-cricket/internal/domain/player"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
)

type playerDTO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	BattingStyle    string `json:"battingStyle,omitempty"`
	BowlingStyle    string `json:"bowlingStyle,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Credits         string `json:"credits"`
	Points          string `json:"points"`
	SelectedByPct   string `json:"selectedByPct"`
	PlayedLastMatch bool   `json:"playedLastMatch"`
}

type battingLineDTO struct {
	Runs       int    `json:"runs"`
	BallsFaced int    `json:"ballsFaced"`
	Fours      int    `json:"fours"`
	Sixes      int    `json:"sixes"`
	StrikeRate string `json:"strikeRate"`
	Dismissal  string `json:"dismissal,omitempty"`
	NotOut     bool   `json:"notOut"`
}

type bowlingLineDTO struct {
	Overs        string `json:"overs"`
	Maidens      int    `json:"maidens"`
	RunsConceded int    `json:"runsConceded"`
	Wickets      int    `json:"wickets"`
	EconomyRate  string `json:"economyRate"`
	DotBalls     int    `json:"dotBalls"`
}

type fieldingLineDTO struct {
	Catches       int `json:"catches"`
	RunOuts       int `json:"runOuts"`
	DirectRunOuts int `json:"directRunOuts"`
	Stumpings     int `json:"stumpings"`
}

type playerStatDTO struct {
	MatchID  int64           `json:"matchId"`
	TeamID   int64           `json:"teamId"`
	Batting  battingLineDTO  `json:"batting"`
	Bowling  bowlingLineDTO  `json:"bowling"`
	Fielding fieldingLineDTO `json:"fielding"`
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:              v.ID,
		Name:            v.Name,
		Role:            v.Role,
		BattingStyle:    v.BattingStyle,
		BowlingStyle:    v.BowlingStyle,
		Nationality:     v.Nationality,
		ImageURL:        v.ImageURL,
		Credits:         v.Credits.String(),
		Points:          v.Points.String(),
		SelectedByPct:   v.SelectedByPct.String(),
		PlayedLastMatch: v.PlayedLastMatch,
	}
}

func playerStatToDTO(v stats.PlayerMatchStat) playerStatDTO {
	return playerStatDTO{
		MatchID: v.MatchID,
		TeamID:  v.TeamID,
		Batting: battingLineDTO{
			Runs:       v.Batting.Runs,
			BallsFaced: v.Batting.BallsFaced,
			Fours:      v.Batting.Fours,
			Sixes:      v.Batting.Sixes,
			StrikeRate: v.Batting.StrikeRate().String(),
			Dismissal:  v.Batting.Dismissal,
			NotOut:     v.Batting.NotOut,
		},
		Bowling: bowlingLineDTO{
			Overs:        v.Bowling.Overs().String(),
			Maidens:      v.Bowling.Maidens,
			RunsConceded: v.Bowling.RunsConceded,
			Wickets:      v.Bowling.Wickets,
			EconomyRate:  v.Bowling.EconomyRate().String(),
			DotBalls:     v.Bowling.DotBalls,
		},
		Fielding: fieldingLineDTO{
			Catches:       v.Fielding.Catches,
			RunOuts:       v.Fielding.RunOuts,
			DirectRunOuts: v.Fielding.DirectRunOuts,
			Stumpings:     v.Fielding.Stumpings,
		},
	}
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) ListTeamSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamSquad")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season := strings.TrimSpace(r.URL.Query().Get("season"))

	items, err := h.playerService.TeamSquad(ctx, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list team squad failed", "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListPlayerRecentStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerRecentStats")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.playerService.RecentStats(ctx, playerID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list player stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]playerStatDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerStatToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
