package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

type Handler struct {
	leaderboardService  *usecase.LeaderboardService
	gameService         *usecase.GameService
	playerService       *usecase.PlayerService
	subscriptionService *usecase.SubscriptionService
	assetService        *usecase.AssetService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	leaderboardService *usecase.LeaderboardService,
	gameService *usecase.GameService,
	playerService *usecase.PlayerService,
	subscriptionService *usecase.SubscriptionService,
	assetService *usecase.AssetService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leaderboardService:  leaderboardService,
		gameService:         gameService,
		playerService:       playerService,
		subscriptionService: subscriptionService,
		assetService:        assetService,
		logger:              logger,
		validator:           validator.New(),
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
