package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
	"github.com/riskibarqy/speedrun-browser/internal/infrastructure/repository/memory"
	speedrunmock "github.com/riskibarqy/speedrun-browser/internal/mocks/domain/speedrun"
	"github.com/riskibarqy/speedrun-browser/internal/platform/cache"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

type stubAssetFetcher struct{}

func (stubAssetFetcher) FetchAsset(_ context.Context, uri string) (usecase.AssetContent, error) {
	return usecase.AssetContent{URI: uri, ContentType: "image/png", Body: []byte("png-bytes")}, nil
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       any            `json:"data"`
	Error      map[string]any `json:"error"`
}

func newTestRouter(t *testing.T, repo speedrun.Repository) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	assets := usecase.NewAssetService(stubAssetFetcher{}, cache.NewStore(time.Minute), 2, logger)
	handler := NewHandler(
		usecase.NewLeaderboardService(repo, 2, logger),
		usecase.NewGameService(repo),
		usecase.NewPlayerService(repo, nil),
		usecase.NewSubscriptionService(memory.NewSubscriptionRepository(), nil, logger),
		assets,
		logger,
	)
	return NewRouter(handler, logger, true, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response body: %v", err)
		}
	}
	return rec, body
}

func sampleLeaderboard() speedrun.Leaderboard {
	date := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	return speedrun.Leaderboard{
		GameID:     "g1",
		CategoryID: "c1",
		Runs: []speedrun.RunEntry{
			{Place: 1, Run: speedrun.Run{ID: "r1", Date: &date, Values: map[string]string{"v1": "a"}, Players: []speedrun.User{{ID: "p1"}}}},
			{Place: 2, Run: speedrun.Run{ID: "r2", Values: map[string]string{"v1": "b"}, Players: []speedrun.User{{Name: "guest"}}}},
		},
		Players: map[string]speedrun.User{
			"p1": {ID: "p1", Names: speedrun.Names{speedrun.NameKeyInternational: "UserA"}},
		},
	}
}

func TestRouter_GetLeaderboardFiltersByVariable(t *testing.T) {
	t.Parallel()

	repo := speedrunmock.NewRepository(t)
	repo.On("GetLeaderboard", mock.Anything, "c1").Return(sampleLeaderboard(), true, nil).Once()

	rec, body := doRequest(t, newTestRouter(t, repo), http.MethodGet, "/v1/leaderboards/c1?var.v1=a")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "c1", data["key"])
	assert.Equal(t, false, data["empty"])

	runs, ok := data["runs"].([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)

	run := runs[0].(map[string]any)
	assert.Equal(t, "r1", run["run_id"])
	assert.Equal(t, "1st", run["place_name"])
	assert.Equal(t, "2021-06-01", run["date"])
	players := run["players"].([]any)
	assert.Equal(t, "UserA", players[0].(map[string]any)["name"])
}

func TestRouter_GetLeaderboardNoMatchIsEmpty(t *testing.T) {
	t.Parallel()

	repo := speedrunmock.NewRepository(t)
	repo.On("GetLeaderboard", mock.Anything, "c1_l1").Return(sampleLeaderboard(), true, nil).Once()

	rec, body := doRequest(t, newTestRouter(t, repo), http.MethodGet, "/v1/leaderboards/c1/levels/l1?var.v1=zzz")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body.Data.(map[string]any)
	assert.Equal(t, "c1_l1", data["key"])
	assert.Equal(t, true, data["empty"])
	assert.Empty(t, data["runs"])
}

func TestRouter_GetLeaderboardNotFoundNamesKey(t *testing.T) {
	t.Parallel()

	repo := speedrunmock.NewRepository(t)
	repo.On("GetLeaderboard", mock.Anything, "c9").Return(speedrun.Leaderboard{}, false, nil).Once()

	rec, body := doRequest(t, newTestRouter(t, repo), http.MethodGet, "/v1/leaderboards/c9")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body.Error["status"])
	assert.Contains(t, body.Error["message"], "c9")
}

func TestRouter_GetLeaderboardRejectsConflictingVariable(t *testing.T) {
	t.Parallel()

	repo := speedrunmock.NewRepository(t)
	rec, body := doRequest(t, newTestRouter(t, repo), http.MethodGet, "/v1/leaderboards/c1?var.v1=a&var.v1=b")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", body.Error["status"])
}

func TestRouter_PersonalBestsForGuestHasNoSections(t *testing.T) {
	t.Parallel()

	repo := speedrunmock.NewRepository(t)
	repo.On("GetUsers", mock.Anything, []string{"p1"}).
		Return([]speedrun.User{{ID: "p1", Guest: true, Name: "someone"}}, nil).Once()

	rec, body := doRequest(t, newTestRouter(t, repo), http.MethodGet, "/v1/players/p1/personal-bests")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body.Data.(map[string]any)
	assert.Empty(t, data["sections"])
	assert.Equal(t, true, data["player"].(map[string]any)["guest"])
}

func TestRouter_ListPlayersRequiresIDs(t *testing.T) {
	t.Parallel()

	repo := speedrunmock.NewRepository(t)
	rec, _ := doRequest(t, newTestRouter(t, repo), http.MethodGet, "/v1/players?ids=,,")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SubscriptionLifecycle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, speedrunmock.NewRepository(t))

	rec, body := doRequest(t, router, http.MethodPut, "/v1/subscriptions/game/g1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "game_g1", body.Data.(map[string]any)["topic"])

	rec, _ = doRequest(t, router, http.MethodPut, "/v1/subscriptions/game/g1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/subscriptions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body.Data, 1)

	rec, _ = doRequest(t, router, http.MethodDelete, "/v1/subscriptions/game/g1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doRequest(t, router, http.MethodDelete, "/v1/subscriptions/game/g1")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body.Error["status"])

	rec, _ = doRequest(t, router, http.MethodPut, "/v1/subscriptions/team/t1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GetAssetWritesRawImage(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, speedrunmock.NewRepository(t))

	rec, _ := doRequest(t, router, http.MethodGet, "/v1/assets?uri=https://www.speedrun.com/trophy.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	for _, uri := range []string{"file:///etc/passwd", "http://127.0.0.1/latest/meta-data/iam", "https://example.org/a.png"} {
		rec, _ = doRequest(t, router, http.MethodGet, "/v1/assets?uri="+url.QueryEscape(uri))
		assert.Equal(t, http.StatusBadRequest, rec.Code, uri)
	}
}

func TestRouter_ServesOpenAPI(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, speedrunmock.NewRepository(t))
	rec, _ := doRequest(t, router, http.MethodGet, "/openapi.yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/leaderboards/{categoryID}")

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	req.Header.Set("If-None-Match", "W/"+etag)
	cached := httptest.NewRecorder()
	router.ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
	assert.Empty(t, cached.Body.String())
}

func TestRouter_ServesSwaggerUI(t *testing.T) {
	t.Parallel()

	rec, _ := doRequest(t, newTestRouter(t, speedrunmock.NewRepository(t)), http.MethodGet, "/docs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "url: '/openapi.yaml'")
}
