package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

const assetCacheControl = "public, max-age=86400"

// GetAsset proxies a game or trophy image through the asset cache. The body is
// the raw image, not a JSON envelope; errors still use the envelope.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAsset")
	defer span.End()

	uri := strings.TrimSpace(r.URL.Query().Get("uri"))
	content, err := h.assetService.Get(ctx, uri)
	if err != nil {
		h.logger.WarnContext(ctx, "get asset failed", "uri", uri, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", content.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Body)))
	w.Header().Set("Cache-Control", assetCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content.Body)
}
