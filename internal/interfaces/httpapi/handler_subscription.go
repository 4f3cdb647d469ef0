package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubscriptions")
	defer span.End()

	items, err := h.subscriptionService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list subscriptions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]subscriptionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, subscriptionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSubscription")
	defer span.End()

	input, ok := h.subscriptionInput(w, r)
	if !ok {
		return
	}

	item, err := h.subscriptionService.Get(ctx, input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, subscriptionToDTO(item))
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Subscribe")
	defer span.End()

	input, ok := h.subscriptionInput(w, r)
	if !ok {
		return
	}

	item, err := h.subscriptionService.Subscribe(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "subscribe failed", "entity_type", input.EntityType, "entity_id", input.EntityID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, subscriptionToDTO(item))
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Unsubscribe")
	defer span.End()

	input, ok := h.subscriptionInput(w, r)
	if !ok {
		return
	}

	if err := h.subscriptionService.Unsubscribe(ctx, input); err != nil {
		h.logger.WarnContext(ctx, "unsubscribe failed", "entity_type", input.EntityType, "entity_id", input.EntityID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) subscriptionInput(w http.ResponseWriter, r *http.Request) (usecase.SubscriptionInput, bool) {
	ctx := r.Context()
	input := usecase.SubscriptionInput{
		EntityType: strings.ToLower(strings.TrimSpace(r.PathValue("entityType"))),
		EntityID:   strings.TrimSpace(r.PathValue("entityID")),
	}
	if err := h.validateRequest(ctx, input); err != nil {
		writeError(ctx, w, err)
		return usecase.SubscriptionInput{}, false
	}
	return input, true
}
