package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/tournament"
	"github.com/ovrplay/fantasy-cricket/internal/usecase"
)

type tournamentDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Season string `json:"season"`
	Status string `json:"status"`
}

type teamScoreDTO struct {
	TeamID  int64  `json:"teamId"`
	Innings int    `json:"innings"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Overs   string `json:"overs"`
}

type scorecardDTO struct {
	Scores     []teamScoreDTO `json:"scores"`
	TossWonBy  int64          `json:"tossWonBy,omitempty"`
	Elected    string         `json:"elected,omitempty"`
	WinnerID   int64          `json:"winnerId,omitempty"`
	Note       string         `json:"note,omitempty"`
	DLSApplied bool           `json:"dlsApplied,omitempty"`
}

type matchDTO struct {
	ID           int64         `json:"id"`
	TournamentID int64         `json:"tournamentId"`
	HomeTeamID   int64         `json:"homeTeamId"`
	AwayTeamID   int64         `json:"awayTeamId"`
	Title        string        `json:"title"`
	Format       string        `json:"format"`
	Venue        string        `json:"venue"`
	Status       string        `json:"status"`
	StartsAt     string        `json:"startsAt"`
	EndsAt       string        `json:"endsAt,omitempty"`
	Scorecard    *scorecardDTO `json:"scorecard,omitempty"`
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:     v.ID,
		Name:   v.Name,
		Season: v.Season,
		Status: v.Status,
	}
}

func matchToDTO(v match.Match) matchDTO {
	out := matchDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		HomeTeamID:   v.HomeTeamID,
		AwayTeamID:   v.AwayTeamID,
		Title:        v.Title,
		Format:       v.Format,
		Venue:        v.Venue,
		Status:       string(v.Status),
		StartsAt:     v.StartsAt.UTC().Format(time.RFC3339),
	}
	if v.EndsAt != nil {
		out.EndsAt = v.EndsAt.UTC().Format(time.RFC3339)
	}
	if v.Scorecard != nil {
		card := scorecardDTO{
			Scores:     make([]teamScoreDTO, 0, len(v.Scorecard.Scores)),
			TossWonBy:  v.Scorecard.TossWonBy,
			Elected:    v.Scorecard.Elected,
			WinnerID:   v.Scorecard.WinnerID,
			Note:       v.Scorecard.Note,
			DLSApplied: v.Scorecard.DLSApplied,
		}
		for _, score := range v.Scorecard.Scores {
			card.Scores = append(card.Scores, teamScoreDTO{
				TeamID:  score.TeamID,
				Innings: score.Innings,
				Runs:    score.Runs,
				Wickets: score.Wickets,
				Overs:   score.Overs,
			})
		}
		out.Scorecard = &card
	}
	return out
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	limit, offset, err := queryPagination(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	items, err := h.matchService.ListTournaments(ctx, status, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tournamentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tournamentToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListMatchesByTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByTournament")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, offset, err := queryPagination(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matchService.ListByTournament(ctx, tournamentID, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournament matches failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingMatches")
	defer span.End()

	horizon := 7 * 24 * time.Hour
	if raw := strings.TrimSpace(r.URL.Query().Get("horizon")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: horizon must be a positive duration", usecase.ErrInvalidInput))
			return
		}
		horizon = parsed
	}

	items, err := h.matchService.ListUpcoming(ctx, horizon)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	items, err := h.matchService.ListLive(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
