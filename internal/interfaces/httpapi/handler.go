package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
	"github.com/ovrplay/fantasy-cricket/internal/usecase"
)

type Handler struct {
	matchService   *usecase.MatchService
	playerService  *usecase.PlayerService
	fantasyService *usecase.FantasyTeamService
	contestService *usecase.ContestService
	walletService  *usecase.WalletService
	scoringService *usecase.ScoringService
	contentService *usecase.ContentService
	entitySync     *usecase.EntitySyncService
	matchSync      *usecase.MatchSyncService
	ratingService  *usecase.RatingService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	playerService *usecase.PlayerService,
	fantasyService *usecase.FantasyTeamService,
	contestService *usecase.ContestService,
	walletService *usecase.WalletService,
	scoringService *usecase.ScoringService,
	contentService *usecase.ContentService,
	entitySync *usecase.EntitySyncService,
	matchSync *usecase.MatchSyncService,
	ratingService *usecase.RatingService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:   matchService,
		playerService:  playerService,
		fantasyService: fantasyService,
		contestService: contestService,
		walletService:  walletService,
		scoringService: scoringService,
		contentService: contentService,
		entitySync:     entitySync,
		matchSync:      matchSync,
		ratingService:  ratingService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func decodeBody(r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(raw)
	if err != nil || out < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return out, nil
}

func queryPagination(r *http.Request) (limit, offset int, err error) {
	limit, err = queryInt(r, "limit", 50)
	if err != nil {
		return 0, 0, err
	}
	offset, err = queryInt(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
