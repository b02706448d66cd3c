package httpapi

import (
	"net/http"
)

type updateScoringRuleRequest struct {
	Rule  string `json:"rule" validate:"required,max=100"`
	Value string `json:"value" validate:"required"`
}

func (h *Handler) SyncTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncTournaments")
	defer span.End()

	if err := h.entitySync.SyncTournaments(ctx); err != nil {
		h.logger.ErrorContext(ctx, "tournament sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "synced"})
}

func (h *Handler) SyncTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncTeams")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.entitySync.SyncTeams(ctx, tournamentID); err != nil {
		h.logger.ErrorContext(ctx, "team sync failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "synced"})
}

func (h *Handler) SyncSquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncSquads")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.entitySync.SyncSquads(ctx, tournamentID); err != nil {
		h.logger.ErrorContext(ctx, "squad sync failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "synced"})
}

func (h *Handler) SyncFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncFixtures")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.matchSync.SyncFixtures(ctx, tournamentID); err != nil {
		h.logger.ErrorContext(ctx, "fixture sync failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "synced"})
}

func (h *Handler) SyncMatchWindow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncMatchWindow")
	defer span.End()

	if err := h.matchSync.SyncWindow(ctx); err != nil {
		h.logger.ErrorContext(ctx, "match window sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "synced"})
}

func (h *Handler) RefreshMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.matchSync.RefreshMatch(ctx, matchID); err != nil {
		h.logger.ErrorContext(ctx, "match refresh failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"matchId": matchID})
}

func (h *Handler) RecomputeRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeRatings")
	defer span.End()

	if err := h.ratingService.RecomputeAll(ctx); err != nil {
		h.logger.ErrorContext(ctx, "rating recompute failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recomputed"})
}

func (h *Handler) RecomputePlayerRating(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputePlayerRating")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.ratingService.RecomputePlayer(ctx, playerID); err != nil {
		h.logger.ErrorContext(ctx, "player rating recompute failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"playerId": playerID})
}

func (h *Handler) GetScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoringRules")
	defer span.End()

	rules, err := h.scoringService.Rules(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoring rules failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make(map[string]string, len(rules))
	for rule, value := range rules {
		out[string(rule)] = value.String()
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) UpdateScoringRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScoringRule")
	defer span.End()

	var req updateScoringRuleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.scoringService.UpdateRule(ctx, req.Rule, req.Value); err != nil {
		h.logger.WarnContext(ctx, "update scoring rule failed", "rule", req.Rule, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"rule": req.Rule, "value": req.Value})
}
