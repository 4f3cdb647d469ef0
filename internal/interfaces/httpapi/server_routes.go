package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerSpeedrunRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/games/{gameID}/leaderboards", handler.PreloadGameLeaderboards)
	mux.HandleFunc("GET /v1/leaderboards/{categoryID}", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/leaderboards/{categoryID}/levels/{levelID}", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/personal-bests", handler.GetPersonalBests)
	mux.HandleFunc("GET /v1/assets", handler.GetAsset)
}

func registerSubscriptionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/subscriptions", handler.ListSubscriptions)
	mux.HandleFunc("GET /v1/subscriptions/{entityType}/{entityID}", handler.GetSubscription)
	mux.HandleFunc("PUT /v1/subscriptions/{entityType}/{entityID}", handler.Subscribe)
	mux.HandleFunc("DELETE /v1/subscriptions/{entityType}/{entityID}", handler.Unsubscribe)
}
