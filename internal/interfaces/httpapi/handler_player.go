package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

type listPlayersRequest struct {
	IDs []string `validate:"required,min=1,max=50,dive,required,max=64"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	req := listPlayersRequest{IDs: splitIDs(r.URL.Query().Get("ids"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.GetPlayers(ctx, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "ids", len(req.IDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(players))
	for _, p := range players {
		items = append(items, userToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer", attribute.String("speedrun.player_id", r.PathValue("playerID")))
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	player, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(player))
}

func (h *Handler) GetPersonalBests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPersonalBests", attribute.String("speedrun.player_id", r.PathValue("playerID")))
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	view, err := h.playerService.GetPersonalBests(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get personal bests failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, personalBestsToDTO(view))
}
