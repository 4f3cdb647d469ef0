package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame", attribute.String("speedrun.game_id", r.PathValue("gameID")))
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	game, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(game))
}
