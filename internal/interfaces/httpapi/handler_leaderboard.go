package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

type leaderboardRequest struct {
	CategoryID string `validate:"required,max=64"`
	LevelID    string `validate:"omitempty,max=64"`
	GameID     string `validate:"omitempty,max=64"`
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard",
		attribute.String("speedrun.category_id", r.PathValue("categoryID")),
		attribute.String("speedrun.level_id", r.PathValue("levelID")),
	)
	defer span.End()

	req := leaderboardRequest{
		CategoryID: strings.TrimSpace(r.PathValue("categoryID")),
		LevelID:    strings.TrimSpace(r.PathValue("levelID")),
		GameID:     strings.TrimSpace(r.URL.Query().Get("game_id")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	selections, err := parseVariableSelections(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.leaderboardService.GetLeaderboard(ctx, usecase.LeaderboardQuery{
		CategoryID: req.CategoryID,
		LevelID:    req.LevelID,
		GameID:     req.GameID,
		Selections: selections,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "category_id", req.CategoryID, "level_id", req.LevelID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardViewToDTO(view))
}

func (h *Handler) PreloadGameLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreloadGameLeaderboards",
		attribute.String("speedrun.game_id", r.PathValue("gameID")),
	)
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	selections, err := parseVariableSelections(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.leaderboardService.PreloadGame(ctx, gameID, selections)
	if err != nil {
		h.logger.WarnContext(ctx, "preload game leaderboards failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardDTO, 0, len(views))
	for _, view := range views {
		items = append(items, leaderboardViewToDTO(view))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
