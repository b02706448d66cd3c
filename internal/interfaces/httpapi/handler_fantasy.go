package httpapi

import (
	"net/http"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	"github.com/ovrplay/fantasy-cricket/internal/domain/stats"
)

type fantasyPickRequest struct {
	PlayerID      int64 `json:"playerId" validate:"required,gt=0"`
	IsCaptain     bool  `json:"isCaptain"`
	IsViceCaptain bool  `json:"isViceCaptain"`
	IsSubstitute  bool  `json:"isSubstitute"`
}

type saveFantasyTeamRequest struct {
	UserID  int64                `json:"userId" validate:"required,gt=0"`
	MatchID int64                `json:"matchId" validate:"required,gt=0"`
	Name    string               `json:"name" validate:"max=100"`
	Picks   []fantasyPickRequest `json:"picks" validate:"required,min=11,max=15"`
}

type fantasyPickDTO struct {
	PlayerID      int64  `json:"playerId"`
	IsCaptain     bool   `json:"isCaptain"`
	IsViceCaptain bool   `json:"isViceCaptain"`
	IsSubstitute  bool   `json:"isSubstitute"`
	Points        string `json:"points"`
}

type fantasyTeamDTO struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	MatchID   int64            `json:"matchId"`
	Name      string           `json:"name"`
	Picks     []fantasyPickDTO `json:"picks"`
	Points    string           `json:"points"`
	UpdatedAt string           `json:"updatedAt"`
}

type lineupEntryDTO struct {
	PlayerID  int64  `json:"playerId"`
	TeamID    int64  `json:"teamId"`
	Status    string `json:"status"`
	IsCaptain bool   `json:"isCaptain"`
	IsKeeper  bool   `json:"isKeeper"`
}

func fantasyTeamToDTO(v fantasy.Team) fantasyTeamDTO {
	picks := make([]fantasyPickDTO, 0, len(v.Picks))
	for _, pick := range v.Picks {
		picks = append(picks, fantasyPickDTO{
			PlayerID:      pick.PlayerID,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
			IsSubstitute:  pick.IsSubstitute,
			Points:        pick.Points.String(),
		})
	}
	return fantasyTeamDTO{
		ID:        v.ID,
		UserID:    v.UserID,
		MatchID:   v.MatchID,
		Name:      v.Name,
		Picks:     picks,
		Points:    v.Points.String(),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type userMatchSummaryDTO struct {
	Match matchDTO         `json:"match"`
	Teams []fantasyTeamDTO `json:"teams"`
}

func lineupEntryToDTO(v stats.LineupEntry) lineupEntryDTO {
	return lineupEntryDTO{
		PlayerID:  v.PlayerID,
		TeamID:    v.TeamID,
		Status:    v.Status,
		IsCaptain: v.IsCaptain,
		IsKeeper:  v.IsKeeper,
	}
}

func (h *Handler) SaveFantasyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveFantasyTeam")
	defer span.End()

	var req saveFantasyTeamRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks := make([]fantasy.Pick, 0, len(req.Picks))
	for _, pick := range req.Picks {
		picks = append(picks, fantasy.Pick{
			PlayerID:      pick.PlayerID,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
			IsSubstitute:  pick.IsSubstitute,
		})
	}

	item, err := h.fantasyService.SaveTeam(ctx, fantasy.Team{
		UserID:  req.UserID,
		MatchID: req.MatchID,
		Name:    req.Name,
		Picks:   picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save fantasy team failed", "user_id", req.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fantasyTeamToDTO(item))
}

func (h *Handler) GetFantasyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFantasyTeam")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.fantasyService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fantasy team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, fantasyTeamToDTO(item))
}

func (h *Handler) ListUserFantasyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserFantasyTeams")
	defer span.End()

	userID, err := queryInt(r, "user_id", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID, err := queryInt(r, "match_id", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fantasyService.ListUserTeams(ctx, int64(userID), int64(matchID))
	if err != nil {
		h.logger.WarnContext(ctx, "list fantasy teams failed", "user_id", userID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]fantasyTeamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fantasyTeamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListUserMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserMatches")
	defer span.End()

	userID, err := queryInt(r, "user_id", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fantasyService.ListUserMatches(ctx, int64(userID))
	if err != nil {
		h.logger.WarnContext(ctx, "list user matches failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]userMatchSummaryDTO, 0, len(items))
	for _, item := range items {
		teams := make([]fantasyTeamDTO, 0, len(item.Teams))
		for _, team := range item.Teams {
			teams = append(teams, fantasyTeamToDTO(team))
		}
		out = append(out, userMatchSummaryDTO{Match: matchToDTO(item.Match), Teams: teams})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatchLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchLineup")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fantasyService.MatchLineup(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match lineup failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]lineupEntryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, lineupEntryToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
