package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/contest"
	"github.com/ovrplay/fantasy-cricket/internal/usecase"
)

type winningTierRequest struct {
	From  int    `json:"from" validate:"required,gt=0"`
	To    int    `json:"to" validate:"required,gt=0"`
	Price string `json:"price" validate:"required"`
}

type createContestRequest struct {
	MatchID           int64                `json:"matchId" validate:"required,gt=0"`
	Name              string               `json:"name" validate:"required,max=150"`
	EntryFee          string               `json:"entryFee" validate:"required"`
	PrizePool         string               `json:"prizePool" validate:"required"`
	CommissionPct     string               `json:"commissionPct"`
	TotalSpots        int                  `json:"totalSpots" validate:"required,gt=0"`
	MaxEntriesPerUser int                  `json:"maxEntriesPerUser"`
	StartsAt          string               `json:"startsAt"`
	EndsAt            string               `json:"endsAt"`
	Winnings          []winningTierRequest `json:"winnings" validate:"required,min=1,dive"`
}

type updateContestRequest struct {
	Name              string               `json:"name" validate:"required,max=150"`
	EntryFee          string               `json:"entryFee" validate:"required"`
	PrizePool         string               `json:"prizePool" validate:"required"`
	CommissionPct     string               `json:"commissionPct"`
	TotalSpots        int                  `json:"totalSpots" validate:"required,gt=0"`
	MaxEntriesPerUser int                  `json:"maxEntriesPerUser"`
	StartsAt          string               `json:"startsAt"`
	EndsAt            string               `json:"endsAt"`
	Winnings          []winningTierRequest `json:"winnings" validate:"required,min=1,dive"`
}

type joinContestRequest struct {
	UserID        int64 `json:"userId" validate:"required,gt=0"`
	FantasyTeamID int64 `json:"fantasyTeamId" validate:"required,gt=0"`
}

type winningTierDTO struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Price string `json:"price"`
}

type contestDTO struct {
	ID                int64            `json:"id"`
	MatchID           int64            `json:"matchId"`
	Name              string           `json:"name"`
	Type              string           `json:"type"`
	EntryFee          string           `json:"entryFee"`
	PrizePool         string           `json:"prizePool"`
	CommissionPct     string           `json:"commissionPct"`
	TotalSpots        int              `json:"totalSpots"`
	FilledSpots       int              `json:"filledSpots"`
	MaxEntriesPerUser int              `json:"maxEntriesPerUser"`
	Winnings          []winningTierDTO `json:"winnings"`
	Status            string           `json:"status"`
	StartsAt          string           `json:"startsAt,omitempty"`
	EndsAt            string           `json:"endsAt,omitempty"`
	CreatedAt         string           `json:"createdAt"`
}

type contestEntryDTO struct {
	ID            int64  `json:"id"`
	ContestID     int64  `json:"contestId"`
	UserID        int64  `json:"userId"`
	FantasyTeamID int64  `json:"fantasyTeamId"`
	Points        string `json:"points"`
	Rank          int    `json:"rank"`
	CreatedAt     string `json:"createdAt"`
}

func contestToDTO(v contest.Contest) contestDTO {
	winnings := make([]winningTierDTO, 0, len(v.Winnings))
	for _, tier := range v.Winnings {
		winnings = append(winnings, winningTierDTO{From: tier.From, To: tier.To, Price: tier.Price.String()})
	}
	dto := contestDTO{
		ID:                v.ID,
		MatchID:           v.MatchID,
		Name:              v.Name,
		Type:              v.Type,
		EntryFee:          v.EntryFee.String(),
		PrizePool:         v.PrizePool.String(),
		CommissionPct:     v.CommissionPct.String(),
		TotalSpots:        v.TotalSpots,
		FilledSpots:       v.FilledSpots,
		MaxEntriesPerUser: v.MaxEntriesPerUser,
		Winnings:          winnings,
		Status:            v.Status,
		CreatedAt:         v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !v.StartsAt.IsZero() {
		dto.StartsAt = v.StartsAt.UTC().Format(time.RFC3339)
	}
	if !v.EndsAt.IsZero() {
		dto.EndsAt = v.EndsAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func contestEntryToDTO(v contest.Entry) contestEntryDTO {
	return contestEntryDTO{
		ID:            v.ID,
		ContestID:     v.ContestID,
		UserID:        v.UserID,
		FantasyTeamID: v.FantasyTeamID,
		Points:        v.Points.String(),
		Rank:          v.Rank,
		CreatedAt:     v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a valid amount: %v", usecase.ErrInvalidInput, field, err)
	}
	return value, nil
}

func parseTimestamp(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s is not a valid RFC3339 timestamp: %v", usecase.ErrInvalidInput, field, err)
	}
	return value, nil
}

func (h *Handler) CreateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContest")
	defer span.End()

	var req createContestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entryFee, err := parseAmount("entryFee", req.EntryFee)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	prizePool, err := parseAmount("prizePool", req.PrizePool)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	commission, err := parseAmount("commissionPct", req.CommissionPct)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	winnings := make([]contest.WinningTier, 0, len(req.Winnings))
	for _, tier := range req.Winnings {
		price, err := parseAmount("winnings.price", tier.Price)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		winnings = append(winnings, contest.WinningTier{From: tier.From, To: tier.To, Price: price})
	}

	startsAt, err := parseTimestamp("startsAt", req.StartsAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	endsAt, err := parseTimestamp("endsAt", req.EndsAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.contestService.CreateContest(ctx, contest.Contest{
		MatchID:           req.MatchID,
		Name:              req.Name,
		EntryFee:          entryFee,
		PrizePool:         prizePool,
		CommissionPct:     commission,
		TotalSpots:        req.TotalSpots,
		MaxEntriesPerUser: req.MaxEntriesPerUser,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
		Winnings:          winnings,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create contest failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, contestToDTO(item))
}

func (h *Handler) AdminUpdateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminUpdateContest")
	defer span.End()

	contestID, err := pathID(r, "contestID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateContestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entryFee, err := parseAmount("entryFee", req.EntryFee)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	prizePool, err := parseAmount("prizePool", req.PrizePool)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	commission, err := parseAmount("commissionPct", req.CommissionPct)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	winnings := make([]contest.WinningTier, 0, len(req.Winnings))
	for _, tier := range req.Winnings {
		price, err := parseAmount("winnings.price", tier.Price)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		winnings = append(winnings, contest.WinningTier{From: tier.From, To: tier.To, Price: price})
	}

	startsAt, err := parseTimestamp("startsAt", req.StartsAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	endsAt, err := parseTimestamp("endsAt", req.EndsAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.contestService.UpdateContest(ctx, contest.Contest{
		ID:                contestID,
		Name:              req.Name,
		EntryFee:          entryFee,
		PrizePool:         prizePool,
		CommissionPct:     commission,
		TotalSpots:        req.TotalSpots,
		MaxEntriesPerUser: req.MaxEntriesPerUser,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
		Winnings:          winnings,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, contestToDTO(item))
}

func (h *Handler) JoinContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinContest")
	defer span.End()

	contestID, err := pathID(r, "contestID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req joinContestRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.contestService.JoinContest(ctx, contestID, req.UserID, req.FantasyTeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "join contest failed", "contest_id", contestID, "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, contestEntryToDTO(entry))
}

func (h *Handler) ListContestsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestsByMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.contestService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list contests failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]contestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, contestToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ContestLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ContestLeaderboard")
	defer span.End()

	contestID, err := pathID(r, "contestID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.contestService.Leaderboard(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "contest leaderboard failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]contestEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, contestEntryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteContest")
	defer span.End()

	contestID, err := pathID(r, "contestID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.contestService.DeleteContest(ctx, contestID); err != nil {
		h.logger.WarnContext(ctx, "delete contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"id": contestID})
}

func (h *Handler) ResettleContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResettleContest")
	defer span.End()

	contestID, err := pathID(r, "contestID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.contestService.Resettle(ctx, contestID); err != nil {
		h.logger.WarnContext(ctx, "resettle contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"id": contestID})
}
