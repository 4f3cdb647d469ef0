package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/speedrun-browser/internal/platform/id"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	swaggerEnabled bool,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, swaggerEnabled)
	registerSpeedrunRoutes(mux, handler)
	registerSubscriptionRoutes(mux, handler)

	requestIDs := id.NewUUIDGenerator()
	return chain(mux,
		RequestTracing,
		func(next http.Handler) http.Handler { return RequestID(requestIDs, next) },
		func(next http.Handler) http.Handler { return RequestLogging(logger, next) },
		func(next http.Handler) http.Handler { return CORS(corsAllowedOrigins, next) },
		func(next http.Handler) http.Handler { return recoverPanic(logger, next) },
	)
}

// chain wraps h so the first middleware sees the request first.
func chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				ctx := r.Context()
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeError(ctx, w, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
